package conduit

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/conduit/internal/stack"
	"github.com/specialistvlad/conduit/internal/token"
)

// ReservedPrefix starts the names of builder operations; task names may not
// use it.
const ReservedPrefix = "__"

// Conduit is an immutable graph builder. The zero value is not usable; create
// conduits with New or Parse.
type Conduit struct {
	taskNames []string
	known     map[string]struct{}
	stack     stack.Stack[token.Token]
	behavior  Behavior
}

// MethodOption configures a method token pushed by Invoke.
type MethodOption func(*methodConfig)

type methodConfig struct {
	label string
	deps  map[string]string
}

// WithLabel names the task's entry in the accumulator. Labels must be unique
// across the whole graph when it is folded.
func WithLabel(label string) MethodOption {
	return func(c *methodConfig) { c.label = label }
}

// WithDeps records which labels the task reads, keyed by role.
func WithDeps(deps map[string]string) MethodOption {
	return func(c *methodConfig) { c.deps = deps }
}

// TaskFunc pushes a method token for one fixed task name onto c.
type TaskFunc func(c *Conduit, args any, opts ...MethodOption) (*Conduit, error)

// New creates an empty conduit for the given task names.
func New(taskNames []string) (*Conduit, error) {
	known := make(map[string]struct{}, len(taskNames))
	for _, name := range taskNames {
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: empty name in %q", ErrInvalidTaskNames, taskNames)
		case strings.HasPrefix(name, ReservedPrefix):
			return nil, fmt.Errorf("%w: %q uses the reserved prefix %q", ErrInvalidTaskNames, name, ReservedPrefix)
		}
		if _, dup := known[name]; dup {
			return nil, fmt.Errorf("%w: %q is listed twice", ErrInvalidTaskNames, name)
		}
		known[name] = struct{}{}
	}
	return &Conduit{taskNames: slices.Clone(taskNames), known: known}, nil
}

// with returns a copy of c over a different stack.
func (c *Conduit) with(s stack.Stack[token.Token]) *Conduit {
	return &Conduit{taskNames: c.taskNames, known: c.known, stack: s, behavior: c.behavior}
}

// TaskNames returns the registered task names in creation order.
func (c *Conduit) TaskNames() []string {
	return slices.Clone(c.taskNames)
}

// HasTask reports whether name is a registered task name.
func (c *Conduit) HasTask(name string) bool {
	_, ok := c.known[name]
	return ok
}

// Len returns the number of frames on the stack.
func (c *Conduit) Len() int {
	return c.stack.Len()
}

// Reduced reports whether the stack holds exactly one token.
func (c *Conduit) Reduced() bool {
	rest, ok := c.stack.Pop()
	return ok && rest.Empty()
}

// Root returns the top token of the stack.
func (c *Conduit) Root() (token.Token, bool) {
	return c.stack.Peek()
}

// Tokens returns the stack contents from top (most recent) to bottom.
func (c *Conduit) Tokens() []token.Token {
	return c.stack.Values()
}

// Behavior returns a copy of the bound behavior, or nil when none is bound.
func (c *Conduit) Behavior() Behavior {
	if c.behavior == nil {
		return nil
	}
	return maps.Clone(c.behavior)
}

// Invoke pushes a method token calling the task name with args.
func (c *Conduit) Invoke(name string, args any, opts ...MethodOption) (*Conduit, error) {
	if !c.HasTask(name) {
		return nil, fmt.Errorf("%w: %q (registered: %q)", ErrUnknownTask, name, c.taskNames)
	}
	var cfg methodConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return c.with(c.stack.Push(token.Method(name, args, cfg.label, cfg.deps))), nil
}

// Task returns a builder function bound to one registered task name.
func (c *Conduit) Task(name string) (TaskFunc, error) {
	if !c.HasTask(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	return func(target *Conduit, args any, opts ...MethodOption) (*Conduit, error) {
		return target.Invoke(name, args, opts...)
	}, nil
}

// Sequence reduces the top n frames (at least two) into one sequence token.
func (c *Conduit) Sequence(n int) (*Conduit, error) {
	return c.reduce(n, token.Sequence)
}

// Parallel reduces the top n frames (at least two) into one parallel token.
func (c *Conduit) Parallel(n int) (*Conduit, error) {
	return c.reduce(n, token.Parallel)
}

func (c *Conduit) reduce(n int, wrap func(...token.Token) (token.Token, error)) (*Conduit, error) {
	frames := max(n, token.MinChildren)
	if have := c.Len(); have < frames {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughFrames, frames, have)
	}

	children := make([]token.Token, frames)
	rest := c.stack
	for i := frames - 1; i >= 0; i-- {
		children[i], _ = rest.Peek()
		rest, _ = rest.Pop()
	}

	composite, err := wrap(children...)
	if err != nil {
		return nil, err
	}
	return c.with(rest.Push(composite)), nil
}

// Merge pushes the root token of a fully reduced conduit onto c.
func (c *Conduit) Merge(other *Conduit) (*Conduit, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: nil conduit", ErrUnresolvedGraph)
	}
	if !other.Reduced() {
		return nil, fmt.Errorf("%w: merged conduit has %d frames", ErrUnresolvedGraph, other.Len())
	}
	root, _ := other.Root()
	if err := c.checkNames(root); err != nil {
		return nil, err
	}
	return c.with(c.stack.Push(root)), nil
}

// WithBehavior returns a conduit with the same graph bound to behavior.
func (c *Conduit) WithBehavior(behavior Behavior) *Conduit {
	out := c.with(c.stack)
	out.behavior = maps.Clone(behavior)
	return out
}

// checkNames verifies that every method in t is a registered task.
func (c *Conduit) checkNames(t token.Token) error {
	for _, m := range t.Methods() {
		if !c.HasTask(m.Name()) {
			return fmt.Errorf("%w: %q (registered: %q)", ErrUnknownTask, m.Name(), c.taskNames)
		}
	}
	return nil
}

// String renders the stack top to bottom, e.g. [seq(foo, bar) foo#x].
func (c *Conduit) String() string {
	parts := make([]string, 0)
	for t := range c.stack.All() {
		parts = append(parts, t.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
