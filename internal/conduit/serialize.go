package conduit

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/specialistvlad/conduit/internal/stack"
	"github.com/specialistvlad/conduit/internal/token"
)

// document is the canonical serialized form of a conduit. Tokens are listed
// from the top of the stack down.
type document struct {
	TaskNames []string      `json:"taskNames"`
	Tokens    []token.Token `json:"tokens"`
}

// Serialize renders the task names and the stack as canonical JSON. The
// bound behavior is not part of the output.
func (c *Conduit) Serialize() ([]byte, error) {
	doc := document{TaskNames: c.TaskNames(), Tokens: c.Tokens()}
	if doc.TaskNames == nil {
		doc.TaskNames = []string{}
	}
	if doc.Tokens == nil {
		doc.Tokens = []token.Token{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize conduit: %w", err)
	}
	return data, nil
}

// Parse rebuilds a conduit from the output of Serialize. The result has no
// behavior bound.
func Parse(data []byte) (*Conduit, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse conduit: %w", err)
	}
	c, err := New(doc.TaskNames)
	if err != nil {
		return nil, err
	}

	s := stack.New[token.Token]()
	for i, t := range slices.Backward(doc.Tokens) {
		if err := c.checkNames(t); err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		s = s.Push(t)
	}
	return c.with(s), nil
}
