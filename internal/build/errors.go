package build

import (
	"fmt"

	oerrors "github.com/opmodel/extpack/internal/errors"
)

// StageError reports which stage stopped the build.
type StageError struct {
	// Stage is the failing stage.
	Stage Stage

	// Err is the underlying error.
	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error so exit codes follow the cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// MissingSourceFileError indicates a declared file does not exist in the
// source tree.
type MissingSourceFileError struct {
	// Path is the declared path, relative to the source directory.
	Path string

	// Cause is the underlying error (optional).
	Cause error
}

func (e *MissingSourceFileError) Error() string {
	return fmt.Sprintf("source file %q not found", e.Path)
}

// Unwrap exposes both the not found sentinel and the cause.
func (e *MissingSourceFileError) Unwrap() []error {
	if e.Cause == nil {
		return []error{oerrors.ErrNotFound}
	}
	return []error{oerrors.ErrNotFound, e.Cause}
}
