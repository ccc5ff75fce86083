package payment

import (
	"errors"
	"fmt"
)

// ErrorCode classifies everything that can go wrong while resolving a payment.
type ErrorCode string

const (
	CodeMissingIdentifier ErrorCode = "missing_identifier"
	CodeNotFound          ErrorCode = "not_found"
	CodeServer            ErrorCode = "server_error"
	CodeNetwork           ErrorCode = "network_error"
	CodeUnknown           ErrorCode = "unknown"
)

// ResolutionError carries an ErrorCode across the package boundary. The
// wrapped cause is kept for logs, the code is what callers branch on.
type ResolutionError struct {
	Code ErrorCode
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Classify maps any error to its ErrorCode. Errors from outside this package
// count as unknown.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeUnknown
}

// Retryable reports whether a manual retry can recover from the error. A
// missing identifier cannot be retried into existence.
func (c ErrorCode) Retryable() bool {
	return c != CodeMissingIdentifier && c != ""
}
