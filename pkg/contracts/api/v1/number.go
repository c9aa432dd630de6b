package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Number is a JSON value sent either as a number or as a numeric string.
// Interpreting strings is left to the caller because locale handling is a
// server concern.
type Number struct {
	raw any
}

// NewNumber wraps a float64
func NewNumber(f float64) Number {
	return Number{raw: f}
}

// UnmarshalJSON accepts numbers, strings and null
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.raw = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.raw = s
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected number or numeric string, got %s", data)
	}
	n.raw = f
	return nil
}

// MarshalJSON writes the value back as received
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.raw)
}

// IsSet reports whether a non-null value was sent
func (n Number) IsSet() bool {
	return n.raw != nil
}

// Raw returns the float64 or string that was sent, or nil
func (n Number) Raw() any {
	return n.raw
}

// ParseFunc converts a raw Number value to float64
type ParseFunc func(value any) (float64, error)

// FieldError locates a request field that could not be converted
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func parseField(field string, n Number, parse ParseFunc) (float64, error) {
	if !n.IsSet() {
		return 0, nil
	}
	f, err := parse(n.raw)
	if err != nil {
		return 0, &FieldError{Field: field, Err: err}
	}
	return f, nil
}

func parseOptionalField(field string, n Number, parse ParseFunc) (*float64, error) {
	if !n.IsSet() {
		return nil, nil
	}
	f, err := parseField(field, n, parse)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
