package token

import (
	"encoding/json"
	"errors"
	"fmt"
)

// wireToken is the JSON shape of a Token.
type wireToken struct {
	Type     Kind              `json:"type"`
	Name     string            `json:"name,omitempty"`
	Args     any               `json:"args,omitempty"`
	Label    string            `json:"label,omitempty"`
	Deps     map[string]string `json:"deps,omitempty"`
	Children []Token           `json:"children,omitempty"`
}

// MarshalJSON encodes the token as a union-tagged object.
func (t Token) MarshalJSON() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(wireToken{
		Type:     t.kind,
		Name:     t.name,
		Args:     t.args,
		Label:    t.label,
		Deps:     t.deps,
		Children: t.children,
	})
}

// UnmarshalJSON decodes a union-tagged object and validates its shape.
func (t *Token) UnmarshalJSON(data []byte) error {
	var w wireToken
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded := Token{kind: w.Type}
	switch w.Type {
	case KindMethod:
		if len(w.Children) > 0 {
			return errors.New("method token cannot have children")
		}
		decoded = Method(w.Name, w.Args, w.Label, w.Deps)
	case KindSequence, KindParallel:
		if w.Name != "" || w.Args != nil || w.Label != "" || len(w.Deps) > 0 {
			return fmt.Errorf("%s token cannot carry method fields", w.Type)
		}
		decoded.children = w.Children
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*t = decoded
	return nil
}

// Validate checks the shape of t and all of its descendants.
func (t Token) Validate() error {
	switch t.kind {
	case KindMethod:
		if t.name == "" {
			return errors.New("method token has no name")
		}
		return nil
	case KindSequence, KindParallel:
		if len(t.children) < MinChildren {
			return fmt.Errorf("%s token needs at least %d children, got %d", t.kind, MinChildren, len(t.children))
		}
		for i, c := range t.children {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%s child %d: %w", t.kind, i, err)
			}
		}
		return nil
	case "":
		return errors.New("token has no type")
	default:
		return fmt.Errorf("unknown token type %q", t.kind)
	}
}
