// Package config provides centralized configuration management for the
// landed-cost service and CLI.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. YAML file (LANDEDCOST_CONFIG, config.yaml or configs/config.yaml)
//	3. Environment variables (LANDEDCOST_*)
//
// Commands load a .env file before calling Load, so values there behave
// like environment variables.
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	LANDEDCOST_SERVER_PORT=8080
//	LANDEDCOST_LOGGING_LEVEL=debug
//	LANDEDCOST_INGESTION_MAX_ROWS=10000
//	LANDEDCOST_INGESTION_FALLBACK_OVERWRITE=true
//	LANDEDCOST_CATALOG_FILE=configs/catalog.yaml
//
// Column patterns are only configurable through the YAML file:
//
//	ingestion:
//	  column_patterns:
//	    produto: [produto, product, item]
//	    valor: [valor, price, fob]
//
// Fields missing from the file keep their defaults.
package config
