package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/specialistvlad/conduit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the sleep task.
type Input struct {
	// Duration is a time.ParseDuration string such as "250ms".
	Duration string `json:"duration"`
}

// Output reports how long the task actually waited.
type Output struct {
	Slept string `json:"slept"`
}

// Sleep waits for the given duration or until the context is done.
func Sleep(ctx context.Context, _ accumulator.Accumulator, call conduit.Call) (any, error) {
	var input Input
	if err := registry.DecodeArgs(call.Args, &input); err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(input.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", input.Duration, err)
	}

	ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", d)
	start := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return &Output{Slept: time.Since(start).String()}, nil
	case <-ctx.Done():
		return &Output{Slept: time.Since(start).String()}, ctx.Err()
	}
}

// Register registers the action with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("sleep", Sleep)
}
