// Package app wires configuration, logging, telemetry, the domain services
// and the HTTP router into a runnable server.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, YAML file and environment
//	2. Initialize logging and OpenTelemetry providers
//	3. Build the column mapper, ingestion pipeline and allocation engine
//	4. Build the services and HTTP handlers
//	5. Configure the middleware chain and routes
//
// # Usage
//
//	application, err := app.NewApplication(nil, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run stops on SIGINT, SIGTERM or context cancellation. In-flight requests
// are drained within the configured shutdown timeout, telemetry providers
// are flushed and the log file is closed.
package app
