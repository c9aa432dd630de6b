// Package http implements the HTTP handlers of the landed-cost service.
// Handlers stay thin: they decode and validate the request, call a
// service, and render either a success or a failure envelope.
//
// # Envelopes
//
// Every response body is one of:
//
//	{"success": true,  "message": "...", "data": {...}, "timestamp": "..."}
//	{"success": false, "error": "...", "stage": "...", "timestamp": "...", "details": {...}}
//
// Failures are produced by errors.ErrorHandler, which maps service errors
// (ingestion stages, allocation input errors, validation failures) to a
// status code and stage identifier.
//
// # Routes
//
//	POST /api/upload               multipart "file" -> ingestion outcome
//	POST /api/manual-entry         hand-typed products -> validated list
//	POST /api/calculate-costs      products + costs -> allocation + report
//	GET  /api/suggestions/{type}   catalog lists
//	GET  /api/search-products      catalog product search
//	GET  /api/health               status and catalog sizes
//	GET  /metrics                  Prometheus exposition
//
// # Testing
//
// Handlers are tested with httptest and testify mocks of the service
// interfaces declared in interfaces.go.
package http
