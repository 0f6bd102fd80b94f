package config

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes configuration failures so callers can branch on
// category instead of message text.
type ErrorKind int

const (
	// KindNotFound indicates a requested config file does not exist.
	KindNotFound ErrorKind = iota + 1
	// KindParse indicates file contents could not be decoded.
	KindParse
	// KindUnsupportedFormat indicates a config file extension outside
	// .yaml/.yml/.json.
	KindUnsupportedFormat
	// KindValidation indicates a field value violates its type, range, or
	// set-membership constraint.
	KindValidation
)

// String returns the category name.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse failure"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindValidation:
		return "validation failure"
	default:
		return "unknown"
	}
}

// Error is the single configuration error category. Field is set for
// validation failures and names the offending field.
type Error struct {
	Kind  ErrorKind
	Field string
	msg   string
	err   error
}

func (e *Error) Error() string {
	if e.err != nil && e.msg != "" {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func newNotFound(path string) *Error {
	return &Error{Kind: KindNotFound, msg: fmt.Sprintf("config file not found: %s", path)}
}

func newParse(err error) *Error {
	return &Error{Kind: KindParse, msg: "Failed to load config", err: err}
}

func newUnsupported(ext string) *Error {
	return &Error{Kind: KindUnsupportedFormat, msg: fmt.Sprintf("Unsupported config file format: %s (expected .yaml, .yml, or .json)", ext)}
}

func newValidation(field, constraint string) *Error {
	return &Error{Kind: KindValidation, Field: field, msg: fmt.Sprintf("%s: %s", field, constraint)}
}

// IsKind reports whether err is a config Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		return false
	}
	return cfgErr.Kind == kind
}
