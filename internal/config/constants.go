package config

import (
	"time"

	"landedcost/pkg/contracts"
)

// Application constants
const (
	AppName    = "landedcost"
	AppVersion = contracts.Version

	// Upload limits
	MaxUploadSize = 50 << 20 // 50MB
	MaxDataRows   = 10000

	// Error previews returned with ingestion outcomes
	SuccessErrorPreview = 5
	FailureErrorPreview = 10

	DefaultCurrency = "USD"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	DefaultRequestTimeout = 60 * time.Second
)
