package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the optional arguments for the env_vars task.
type Input struct {
	// Prefix keeps only variables whose name starts with it.
	Prefix string `json:"prefix"`
}

// Output defines the data structure returned by the task.
type Output struct {
	All map[string]string `json:"all"`
}

// ReadEnvVars is the action for the 'env_vars' task.
func ReadEnvVars(ctx context.Context, _ accumulator.Accumulator, call conduit.Call) (any, error) {
	var input Input
	if err := registry.DecodeArgs(call.Args, &input); err != nil {
		return nil, err
	}

	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		name, value, ok := strings.Cut(e, "=")
		if ok && strings.HasPrefix(name, input.Prefix) {
			envMap[name] = value
		}
	}

	return &Output{All: envMap}, nil
}

// Register registers the action with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("env_vars", ReadEnvVars)
}
