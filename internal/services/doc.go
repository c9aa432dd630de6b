// Package services sits between the HTTP handlers and the engines. It owns
// per-request resources such as scratch directories, translates boundary
// contracts into engine inputs and records metrics.
//
// # Service Pattern
//
// Services receive their collaborators through the constructor:
//
//	type ServiceName struct {
//		engine  *allocation.Engine
//		metrics *infrastructure.BusinessMetrics
//		logger  *slog.Logger
//	}
//
// Every method takes a context.Context first and returns domain data or
// an error that matches one of the sentinels in errors.go or an engine
// sentinel (ingestion.StageError, allocation.ErrAllocationInput).
package services
