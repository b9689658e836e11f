package build

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/extpack/internal/compiler"
	"github.com/opmodel/extpack/internal/compiler/compilertest"
)

// slowCompiler finishes units in reverse submission order and records the
// peak number of concurrent submissions.
type slowCompiler struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *slowCompiler) Compile(ctx context.Context, unit compiler.Unit) (*compiler.Result, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	delay := time.Duration(10-len(unit.Name)) * 5 * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &compiler.Result{Unit: unit.Name}, nil
}

func units(names ...string) []compiler.Unit {
	out := make([]compiler.Unit, len(names))
	for i, n := range names {
		out[i] = compiler.NewUnit(n, []string{n + ".js"}, n+".min.js", compiler.Options{Level: compiler.LevelSimple})
	}
	return out
}

func TestNewExecutor_ClampsWorkers(t *testing.T) {
	assert.Equal(t, 1, NewExecutor(&compilertest.Fake{}, 0).workers)
	assert.Equal(t, 4, NewExecutor(&compilertest.Fake{}, 4).workers)
}

func TestExecutor_ResultsKeepUnitOrder(t *testing.T) {
	c := &slowCompiler{}
	exec := NewExecutor(c, 3)

	results, err := exec.Execute(context.Background(), units("a", "bb", "ccc", "dddd"))
	require.NoError(t, err)

	require.Len(t, results, 4)
	for i, name := range []string{"a", "bb", "ccc", "dddd"} {
		assert.Equal(t, name, results[i].Unit.Name)
		assert.Equal(t, name, results[i].Result.Unit)
	}
	assert.LessOrEqual(t, c.peak.Load(), int32(3))
}

func TestExecutor_SequentialByDefault(t *testing.T) {
	c := &slowCompiler{}
	_, err := NewExecutor(c, 1).Execute(context.Background(), units("a", "bb", "ccc"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), c.peak.Load())
}

func TestExecutor_ReturnsTransportError(t *testing.T) {
	netErr := &compiler.NetworkError{Endpoint: "http://compiler.test", StatusCode: 502}
	fake := &compilertest.Fake{Errs: map[string]error{"bb": netErr}}

	results, err := NewExecutor(fake, 1).Execute(context.Background(), units("a", "bb"))
	require.Error(t, err)

	var got *compiler.NetworkError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, netErr, results[1].Err)
	assert.NotNil(t, results[0].Result)
}

func TestExecutor_NoUnits(t *testing.T) {
	results, err := NewExecutor(&compilertest.Fake{}, 2).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
