package conduit

import (
	"context"
	"maps"

	"github.com/specialistvlad/conduit/internal/accumulator"
)

// Call describes one task invocation handed to an Action.
type Call struct {
	// ID is the key the outcome is recorded under: the label, or a
	// generated id for unlabeled tasks.
	ID string
	// Name is the registered task name.
	Name string
	// Label is the token label, empty when the token has none.
	Label string
	// Args is the opaque argument payload of the token.
	Args any
	// Deps maps dependency roles to labels of other tasks, e.g. "prev" -> "fx0".
	Deps map[string]string
}

// Action implements a task. It may read earlier results from acc by label.
// The returned result and error are recorded under call.ID before the fold
// continues. Actions run on their own goroutine when under a parallel node
// and must be safe for that.
type Action func(ctx context.Context, acc accumulator.Accumulator, call Call) (any, error)

// Behavior maps task names to their implementations.
type Behavior map[string]Action

// Names returns the bound task names.
func (b Behavior) Names() []string {
	names := make([]string, 0, len(b))
	for name := range maps.Keys(b) {
		names = append(names, name)
	}
	return names
}
