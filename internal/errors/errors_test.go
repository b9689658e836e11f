//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	sentinels := []error{ErrValidation, ErrConnectivity, ErrPermission, ErrNotFound, ErrVersion, ErrCompilation}
	for i := range sentinels {
		for j := range sentinels {
			if i != j {
				assert.NotEqual(t, sentinels[i], sentinels[j])
			}
		}
	}
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "no JS include region",
		Location: "popup.html",
		Context:  map[string]string{"Stage": "pages-compile"},
		Hint:     "wrap script tags in <!-- JS --> and <!-- /JS -->",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: validation failed")
	assert.Contains(t, output, "Location: popup.html")
	assert.Contains(t, output, "Stage: pages-compile")
	assert.Contains(t, output, "no JS include region")
	assert.Contains(t, output, "Hint: wrap script tags")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid value", "extpack.yaml", "set a name")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "invalid value", detail.Message)
	assert.Equal(t, "extpack.yaml", detail.Location)
	assert.Equal(t, "set a name", detail.Hint)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("file missing", "js/a.js", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrValidation, "schema check failed")

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Contains(t, wrapped.Error(), "schema check failed")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"validation", Wrap(ErrValidation, "x"), ExitValidationError},
		{"connectivity", Wrap(ErrConnectivity, "x"), ExitConnectivityError},
		{"permission", Wrap(ErrPermission, "x"), ExitPermissionDenied},
		{"fs permission", fmt.Errorf("write: %w", fs.ErrPermission), ExitPermissionDenied},
		{"not found", Wrap(ErrNotFound, "x"), ExitNotFound},
		{"version", Wrap(ErrVersion, "x"), ExitVersionError},
		{"compilation", Wrap(ErrCompilation, "x"), ExitCompilationError},
		{"explicit exit", &ExitError{Code: 42, Err: errors.New("x")}, 42},
		{"wrapped exit", fmt.Errorf("outer: %w", &ExitError{Code: 3, Err: ErrValidation}), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", (&ExitError{Code: 1, Err: errors.New("boom")}).Error())
	assert.Equal(t, "exit code 2", (&ExitError{Code: 2}).Error())
}
