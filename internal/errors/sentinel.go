package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid input: config, manifest or HTML markup.
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates the remote compiler could not be reached
	// or answered outside the agreed contract.
	ErrConnectivity = errors.New("connectivity error")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a declared source file was not found.
	ErrNotFound = errors.New("not found")

	// ErrVersion indicates the release version could not be resolved.
	ErrVersion = errors.New("version resolution error")

	// ErrCompilation indicates the remote compiler reported errors.
	ErrCompilation = errors.New("compilation error")
)
