package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/registry"
)

// ExecutionRecord holds the start and end times of one task invocation.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// RecorderModule registers actions that record when each call ran. Every
// registered action sleeps for Sleep, then returns its args, or fails when
// the args carry {"fail": "<message>"}.
type RecorderModule struct {
	Names []string
	Sleep time.Duration

	mu      sync.Mutex
	records map[string]ExecutionRecord
	order   []string
}

// NewRecorderModule creates a recorder for the given task names.
func NewRecorderModule(sleep time.Duration, names ...string) *RecorderModule {
	return &RecorderModule{Names: names, Sleep: sleep, records: make(map[string]ExecutionRecord)}
}

// Register registers one recording action per name.
func (m *RecorderModule) Register(r *registry.Registry) {
	for _, name := range m.Names {
		r.RegisterAction(name, m.run)
	}
}

func (m *RecorderModule) run(ctx context.Context, _ accumulator.Accumulator, call conduit.Call) (any, error) {
	start := time.Now()
	select {
	case <-time.After(m.Sleep):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	m.mu.Lock()
	m.records[call.ID] = ExecutionRecord{Start: start, End: time.Now()}
	m.order = append(m.order, call.ID)
	m.mu.Unlock()

	if args, ok := call.Args.(map[string]any); ok {
		if msg, ok := args["fail"].(string); ok {
			return nil, errors.New(msg)
		}
	}
	return call.Args, nil
}

// Record returns the execution record of the call with the given id.
func (m *RecorderModule) Record(id string) (ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

// Order returns the ids in the order the calls finished.
func (m *RecorderModule) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Overlap reports whether two recorded calls ran at the same time.
func Overlap(a, b ExecutionRecord) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
