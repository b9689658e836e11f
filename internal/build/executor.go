package build

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/opmodel/extpack/internal/compiler"
	"github.com/opmodel/extpack/internal/output"
)

// Executor submits compilation units with bounded concurrency.
type Executor struct {
	compiler compiler.Compiler
	workers  int
}

// NewExecutor creates a new Executor with the specified worker count.
func NewExecutor(c compiler.Compiler, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{compiler: c, workers: workers}
}

// JobResult is the outcome of one unit submission.
type JobResult struct {
	Unit   compiler.Unit
	Result *compiler.Result
	Err    error
}

// Execute compiles every unit and returns the outcomes in unit order,
// whatever order the submissions finish in. The first transport failure
// cancels the submissions still in flight and is returned.
func (e *Executor) Execute(ctx context.Context, units []compiler.Unit) ([]JobResult, error) {
	results := make([]JobResult, len(units))
	if len(units) == 0 {
		return results, nil
	}

	output.Debug("executing compile jobs", "count", len(units), "workers", e.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, unit := range units {
		results[i].Unit = unit
		g.Go(func() error {
			res, err := e.compiler.Compile(gctx, unit)
			results[i].Result = res
			results[i].Err = err
			return err
		})
	}

	err := g.Wait()
	output.Debug("compile jobs complete", "count", len(units), "error", err)
	return results, err
}
