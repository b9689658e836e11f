// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config).
package cmdtypes

import (
	oerrors "github.com/opmodel/extpack/internal/errors"
)

// GlobalConfig holds CLI-wide flag values resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// ConfigFlag is the raw --config value; empty means resolve from
	// EXTPACK_CONFIG or the source directory.
	ConfigFlag string

	// Verbose enables debug logging and the manifest diff.
	Verbose bool

	// Timestamps is set only when --timestamps was given explicitly.
	Timestamps *bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess           = oerrors.ExitSuccess
	ExitGeneralError      = oerrors.ExitGeneralError
	ExitValidationError   = oerrors.ExitValidationError
	ExitConnectivityError = oerrors.ExitConnectivityError
	ExitPermissionDenied  = oerrors.ExitPermissionDenied
	ExitNotFound          = oerrors.ExitNotFound
	ExitVersionError      = oerrors.ExitVersionError
	ExitCompilationError  = oerrors.ExitCompilationError
)

// ExitError is a type alias to internal/errors.ExitError.
// This allows cmd package code to continue using cmd.ExitError
// while using the same underlying type across all packages.
type ExitError = oerrors.ExitError

// NewExitError wraps err with the exit code derived from it.
func NewExitError(err error, printed bool) *ExitError {
	return &ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: printed}
}
