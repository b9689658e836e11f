// Package compilertest provides a deterministic in-memory Compiler.
package compilertest

import (
	"context"
	"strings"
	"sync"

	"github.com/opmodel/extpack/internal/compiler"
)

// Fake records submitted units and answers without network access.
// By default the compiled code is the unit's paths joined by newlines.
type Fake struct {
	mu    sync.Mutex
	units []compiler.Unit

	// Results overrides the result per unit name.
	Results map[string]*compiler.Result

	// Errs makes Compile fail for a unit name.
	Errs map[string]error
}

// Compile implements compiler.Compiler.
func (f *Fake) Compile(ctx context.Context, unit compiler.Unit) (*compiler.Result, error) {
	f.mu.Lock()
	f.units = append(f.units, unit)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errs[unit.Name]; ok {
		return nil, err
	}
	if r, ok := f.Results[unit.Name]; ok {
		r.Unit = unit.Name
		return r, nil
	}
	return &compiler.Result{
		Unit:         unit.Name,
		CompiledCode: "// compiled " + unit.Name + "\n" + strings.Join(unit.Paths(), "\n") + "\n",
	}, nil
}

// Units returns the submitted units, in submission order.
func (f *Fake) Units() []compiler.Unit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]compiler.Unit(nil), f.units...)
}

// Unit returns the submitted unit with the given name.
func (f *Fake) Unit(name string) (compiler.Unit, bool) {
	for _, u := range f.Units() {
		if u.Name == name {
			return u, true
		}
	}
	return compiler.Unit{}, false
}
