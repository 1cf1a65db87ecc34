// Package increment provides a counter task whose value flows between
// labeled tasks: each call reads the count recorded by its "prev"
// dependency and adds a step to it.
package increment

import (
	"context"
	"fmt"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the optional arguments for the increment task.
type Input struct {
	// Count is the starting value when there is no "prev" dependency.
	Count int `json:"count"`
	// Step is added to the count. Defaults to 1.
	Step *int `json:"step"`
}

// Output is the recorded counter value.
type Output struct {
	Count int `json:"count"`
}

// Increment is the action for the 'increment' task.
func Increment(_ context.Context, acc accumulator.Accumulator, call conduit.Call) (any, error) {
	var input Input
	if err := registry.DecodeArgs(call.Args, &input); err != nil {
		return nil, err
	}

	count := input.Count
	if prev, ok := call.Deps["prev"]; ok {
		entry, found := acc.Get(prev)
		if !found {
			return nil, fmt.Errorf("dependency %q has no result yet", prev)
		}
		if entry.Failed() {
			return nil, fmt.Errorf("dependency %q failed: %w", prev, entry.Err)
		}
		out, ok := entry.Result.(*Output)
		if !ok {
			return nil, fmt.Errorf("dependency %q is not a counter: %T", prev, entry.Result)
		}
		count = out.Count
	}

	step := 1
	if input.Step != nil {
		step = *input.Step
	}
	return &Output{Count: count + step}, nil
}

// Register registers the action with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("increment", Increment)
}
