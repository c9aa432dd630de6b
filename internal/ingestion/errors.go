package ingestion

import (
	"errors"
	"fmt"
)

// Stage identifies a pipeline step. The values are part of the public
// failure contract.
type Stage string

const (
	StageFileValidation    Stage = "file_validation"
	StageFileReading       Stage = "file_reading"
	StageDataCleaning      Stage = "data_cleaning"
	StageColumnDetection   Stage = "column_detection"
	StageProductValidation Stage = "product_validation"
	StageCritical          Stage = "critical_error"
)

// Sentinel kinds, one per stage. A *StageError matches the sentinel of
// its stage with errors.Is.
var (
	ErrFileValidation    = errors.New("file validation failed")
	ErrRead              = errors.New("file reading failed")
	ErrDataCleaning      = errors.New("data cleaning failed")
	ErrColumnDetection   = errors.New("column detection failed")
	ErrProductValidation = errors.New("product validation failed")
	ErrCritical          = errors.New("critical processing error")
)

var stageSentinels = map[Stage]error{
	StageFileValidation:    ErrFileValidation,
	StageFileReading:       ErrRead,
	StageDataCleaning:      ErrDataCleaning,
	StageColumnDetection:   ErrColumnDetection,
	StageProductValidation: ErrProductValidation,
	StageCritical:          ErrCritical,
}

// StageError reports why an ingestion run stopped.
type StageError struct {
	Stage   Stage
	Message string
	// Details carries stage-specific diagnostics, e.g. available columns.
	Details map[string]any
	Cause   error
}

func newStageError(stage Stage, message string, cause error) *StageError {
	return &StageError{Stage: stage, Message: message, Cause: cause}
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown ingestion error"
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the sentinel of the error's stage
func (e *StageError) Is(target error) bool {
	if e == nil {
		return false
	}
	return stageSentinels[e.Stage] == target
}

// StageOf returns the stage of a *StageError in err's chain, or
// StageCritical for any other error.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageCritical
}
