package services

import "fmt"

// Service is the capability contract every provider wrapper satisfies.
type Service interface {
	// Name identifies the service in errors and history records.
	Name() string
	// CheckAvailable reports whether the service can be used at all,
	// without any network round-trip. The string is a human-readable
	// reason when the first value is false.
	CheckAvailable() (bool, string)
}

// UnavailableError is the fast-fail raised before any call attempt when a
// service cannot be used (typically: no API key configured). It is never
// retried.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is unavailable: %s", e.Service, e.Reason)
}

// CallError reports an operation whose retries were exhausted. It wraps the
// last underlying failure.
type CallError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// ParameterError reports a locally-detected invalid parameter. It is raised
// before any network call and never retried.
type ParameterError struct {
	Param  string
	Detail string
}

func (e *ParameterError) Error() string { return e.Detail }

// NewParameterError builds a ParameterError for the named parameter.
func NewParameterError(param, format string, args ...any) *ParameterError {
	return &ParameterError{Param: param, Detail: fmt.Sprintf(format, args...)}
}
