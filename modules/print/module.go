package print

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/specialistvlad/conduit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Defaults to os.Stdout.
	Out io.Writer

	mu sync.Mutex
}

// Input defines the arguments for the print task.
type Input struct {
	Message string         `json:"message"`
	Value   map[string]any `json:"value"`
}

// Output is the text the task printed.
type Output struct {
	Lines []string `json:"lines"`
}

// Print writes the message, the values and the results of every dependency
// of the call. Lines of concurrent calls are never interleaved.
func (m *Module) Print(ctx context.Context, acc accumulator.Accumulator, call conduit.Call) (any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Printing input.")

	var input Input
	if err := registry.DecodeArgs(call.Args, &input); err != nil {
		return nil, err
	}

	var lines []string
	if input.Message != "" {
		lines = append(lines, input.Message)
	}
	for _, k := range slices.Sorted(maps.Keys(input.Value)) {
		lines = append(lines, fmt.Sprintf("      %s = %s", k, render(input.Value[k])))
	}
	for _, role := range slices.Sorted(maps.Keys(call.Deps)) {
		label := call.Deps[role]
		entry, ok := acc.Get(label)
		switch {
		case !ok:
			lines = append(lines, fmt.Sprintf("      %s (%s) = (missing)", role, label))
		case entry.Failed():
			lines = append(lines, fmt.Sprintf("      %s (%s) failed: %v", role, label, entry.Err))
		default:
			lines = append(lines, fmt.Sprintf("      %s (%s) = %s", role, label, render(entry.Result)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "      (null)")
	}

	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return nil, fmt.Errorf("failed to print: %w", err)
		}
	}
	return &Output{Lines: lines}, nil
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Register registers the action with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("print", m.Print)
}
