package output

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWithSpinner_NonTTYRunsDirectly(t *testing.T) {
	if IsTTY() {
		t.Skip("stderr is a terminal")
	}

	called := false
	err := RunWithSpinner(context.Background(), func() error {
		called = true
		return nil
	}, WithTitle("compiling"))

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestRunWithSpinner_PropagatesError(t *testing.T) {
	if IsTTY() {
		t.Skip("stderr is a terminal")
	}

	want := errors.New("remote failed")
	err := RunWithSpinner(context.Background(), func() error { return want })
	assert.ErrorIs(t, err, want)
}
