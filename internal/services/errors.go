package services

import "fmt"

// ConfigurationError means the catalog source is not configured. The
// synchronizer treats it as a deliberate soft-disable, not a fault.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// RequestError means the catalog source was configured but the fetch failed:
// network trouble, a bad HTTP status, or a response that could not be decoded.
type RequestError struct {
	Reason string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *RequestError) Unwrap() error { return e.Err }

// ValidationError carries every field and row error collected for a rejected
// submission. It is built once by the validator and returned as a value; a
// payload that produces one is never persisted, not even partially.
//
// Keys are field names; the "rejections" and "board_data" keys hold ordered
// lists of per-row error maps aligned to the input position, where an empty
// map means that row passed.
type ValidationError struct {
	Errors map[string]any
}

func (e *ValidationError) Error() string { return "inspection form validation failed" }
