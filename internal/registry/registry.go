package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
)

// ErrMissingActions is returned by Validate when declared task names have no
// registered action.
var ErrMissingActions = errors.New("tasks without a registered action")

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered actions for a single application instance.
type Registry struct {
	actions map[string]conduit.Action
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{actions: make(map[string]conduit.Action)}
}

// RegisterAction registers the Go implementation of a task name. Registering
// the same name twice is a programming error and panics.
func (r *Registry) RegisterAction(name string, action conduit.Action) {
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("action with name '%s' already registered", name))
	}
	if action == nil {
		panic(fmt.Sprintf("action with name '%s' is nil", name))
	}
	r.actions[name] = action
}

// Names returns the registered task names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.actions))
}

// Behavior returns the registered actions as a behavior that can be bound
// to a conduit.
func (r *Registry) Behavior() conduit.Behavior {
	return maps.Clone(r.actions)
}

// Validate checks that every task name has a registered action.
func (r *Registry) Validate(ctx context.Context, taskNames []string) error {
	logger := ctxlog.FromContext(ctx)

	var missing []string
	for _, name := range taskNames {
		if _, ok := r.actions[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		logger.Error("Graph declares tasks without actions.", "missing", missing, "registered", r.Names())
		return fmt.Errorf("%w: %s", ErrMissingActions, strings.Join(missing, ", "))
	}

	logger.Debug("Registry validated.", "tasks", len(taskNames))
	return nil
}

// DecodeArgs converts the JSON-shaped args of a call into out, which should
// be a pointer to a struct with json tags. A nil args leaves out unchanged.
func DecodeArgs(args any, out any) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("cannot encode args: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}
