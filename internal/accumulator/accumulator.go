// Package accumulator defines the label-keyed result map threaded through a
// fold.
//
// # Why the Accumulator Exists
//
// Tasks in a conduit graph communicate through a single shared map: every
// invoked task records its outcome under its effective id (its label, or a
// generated id), and later tasks read sibling outcomes by label. The map is
// the only mutable state a fold touches, so it is kept behind a small
// interface that the fold executor, task implementations and callers all
// share.
//
// # Lifecycle
//
//  1. **Created** fresh per fold (or supplied by the caller)
//  2. **Written** once per invoked task, before that task reports completion
//  3. **Read** by later tasks of the same fold and by the caller afterwards
//  4. **Never shared** between unrelated folds
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Tasks under a parallel
// node write their entries from different goroutines. Writes never overlap
// on a key because ids are unique within a fold.
//
// See internal/inmemorystore for the reference implementation.
package accumulator

import "encoding/json"

// Entry is the recorded outcome of one task invocation.
type Entry struct {
	// Result is the opaque value the task produced. It may be set even when
	// Err is not nil.
	Result any
	// Err is the error the task reported, or nil on success.
	Err error
}

// Failed reports whether the task reported an error.
func (e Entry) Failed() bool {
	return e.Err != nil
}

// MarshalJSON renders the entry as {"result": ..., "error": "..."}.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := struct {
		Result any    `json:"result"`
		Error  string `json:"error,omitempty"`
	}{Result: e.Result}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}

// Accumulator maps task ids to their recorded outcomes.
type Accumulator interface {
	// Get returns the entry stored under id.
	//
	// Returns the zero Entry and false if no task has recorded under id yet.
	Get(id string) (Entry, bool)

	// Set records the outcome of the task with the given id. The fold calls
	// it exactly once per invoked task.
	Set(id string, entry Entry)

	// Has reports whether an entry exists for id.
	Has(id string) bool

	// Len returns the number of recorded entries.
	Len() int

	// Snapshot returns a point-in-time copy of all entries. The returned map
	// belongs to the caller.
	Snapshot() map[string]Entry
}
