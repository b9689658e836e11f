package compiler

import (
	"fmt"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

// NetworkError indicates the service was unreachable or answered with a
// non-2xx status.
type NetworkError struct {
	// Endpoint is the service URL.
	Endpoint string

	// StatusCode is the HTTP status, zero when no response arrived.
	StatusCode int

	// Cause is the underlying error (optional).
	Cause error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("compiler service %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("compiler service %s unreachable: %v", e.Endpoint, e.Cause)
}

// Unwrap exposes both the connectivity sentinel and the cause.
func (e *NetworkError) Unwrap() []error {
	if e.Cause == nil {
		return []error{oerrors.ErrConnectivity}
	}
	return []error{oerrors.ErrConnectivity, e.Cause}
}

// MalformedResponseError indicates the response body did not follow the
// JSON output schema.
type MalformedResponseError struct {
	Unit   string
	Reason string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unit %s: malformed compiler response: %s", e.Unit, e.Reason)
}

// Unwrap exposes both the connectivity sentinel and the cause.
func (e *MalformedResponseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{oerrors.ErrConnectivity}
	}
	return []error{oerrors.ErrConnectivity, e.Cause}
}

// CompilationError indicates the service reported errors for a unit.
type CompilationError struct {
	Unit     string
	Errors   int
	Warnings int
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("unit %s: compilation failed with %d error(s) and %d warning(s)", e.Unit, e.Errors, e.Warnings)
}

// Unwrap returns the compilation sentinel.
func (e *CompilationError) Unwrap() error {
	return oerrors.ErrCompilation
}
