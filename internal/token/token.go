package token

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Kind tags the variant of a Token.
type Kind string

const (
	KindMethod   Kind = "method"
	KindSequence Kind = "sequence"
	KindParallel Kind = "parallel"
)

// MinChildren is the smallest number of children a composite token holds.
const MinChildren = 2

// Token is a node of the graph description tree.
type Token struct {
	kind     Kind
	name     string
	args     any
	label    string
	deps     map[string]string
	children []Token
}

// Method returns a leaf token invoking the task called name.
func Method(name string, args any, label string, deps map[string]string) Token {
	t := Token{kind: KindMethod, name: name, args: args, label: label}
	if len(deps) > 0 {
		t.deps = maps.Clone(deps)
	}
	return t
}

// Sequence returns a composite whose children run in order.
func Sequence(children ...Token) (Token, error) {
	return composite(KindSequence, children)
}

// Parallel returns a composite whose children run concurrently.
func Parallel(children ...Token) (Token, error) {
	return composite(KindParallel, children)
}

func composite(kind Kind, children []Token) (Token, error) {
	if len(children) < MinChildren {
		return Token{}, fmt.Errorf("%s token needs at least %d children, got %d", kind, MinChildren, len(children))
	}
	return Token{kind: kind, children: slices.Clone(children)}, nil
}

// Kind returns the variant tag.
func (t Token) Kind() Kind { return t.kind }

// Name returns the task name of a method token.
func (t Token) Name() string { return t.name }

// Args returns the opaque argument payload of a method token.
func (t Token) Args() any { return t.args }

// Label returns the label of a method token, or "" when it has none.
func (t Token) Label() string { return t.label }

// Deps returns a copy of the dependency map of a method token.
func (t Token) Deps() map[string]string {
	if len(t.deps) == 0 {
		return nil
	}
	return maps.Clone(t.deps)
}

// Children returns a copy of the children of a composite token.
func (t Token) Children() []Token {
	return slices.Clone(t.children)
}

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool { return t.kind == "" }

// Walk visits t and its descendants depth first, parents before children.
// Returning false from fn skips the children of the visited token.
func (t Token) Walk(fn func(Token) bool) {
	if !fn(t) {
		return
	}
	for _, c := range t.children {
		c.Walk(fn)
	}
}

// Methods returns every method token of the tree in left-to-right order.
func (t Token) Methods() []Token {
	var out []Token
	t.Walk(func(n Token) bool {
		if n.kind == KindMethod {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Equal reports whether two trees are identical. Arguments are compared
// with reflect.DeepEqual.
func (t Token) Equal(o Token) bool {
	if t.kind != o.kind || t.name != o.name || t.label != o.label {
		return false
	}
	if !maps.Equal(t.deps, o.deps) || !reflect.DeepEqual(t.args, o.args) {
		return false
	}
	return slices.EqualFunc(t.children, o.children, Token.Equal)
}

// String renders the tree compactly, e.g. seq(foo#fx0, par(bar, bar)).
func (t Token) String() string {
	switch t.kind {
	case KindMethod:
		if t.label != "" {
			return t.name + "#" + t.label
		}
		return t.name
	case KindSequence, KindParallel:
		prefix := "seq("
		if t.kind == KindParallel {
			prefix = "par("
		}
		s := prefix
		for i, c := range t.children {
			if i > 0 {
				s += ", "
			}
			s += c.String()
		}
		return s + ")"
	default:
		return "<invalid>"
	}
}
