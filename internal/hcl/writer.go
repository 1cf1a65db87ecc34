package hcl

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/token"
	"github.com/zclconf/go-cty/cty"
)

// Write renders c as an HCL graph file that Load turns back into an
// equivalent conduit. Arguments must be JSON-encodable.
func Write(c *conduit.Conduit) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	names := c.TaskNames()
	if len(names) == 0 {
		body.SetAttributeValue(attrTasks, cty.ListValEmpty(cty.String))
	} else {
		vals := make([]cty.Value, len(names))
		for i, name := range names {
			vals[i] = cty.StringVal(name)
		}
		body.SetAttributeValue(attrTasks, cty.ListVal(vals))
	}

	// Blocks are pushed in file order, so the bottom of the stack comes first.
	for _, t := range slices.Backward(c.Tokens()) {
		body.AppendNewline()
		if err := appendToken(body, t); err != nil {
			return nil, err
		}
	}
	return hclwrite.Format(f.Bytes()), nil
}

func appendToken(body *hclwrite.Body, t token.Token) error {
	switch t.Kind() {
	case token.KindMethod:
		block := body.AppendNewBlock(blockTask, []string{t.Name()})
		inner := block.Body()
		if t.Label() != "" {
			inner.SetAttributeValue(attrLabel, cty.StringVal(t.Label()))
		}
		if t.Args() != nil {
			val, err := ToCty(t.Args())
			if err != nil {
				return fmt.Errorf("task %q: %w", t.Name(), err)
			}
			inner.SetAttributeValue(attrArgs, val)
		}
		if deps := t.Deps(); len(deps) > 0 {
			vals := make(map[string]cty.Value, len(deps))
			for role, label := range deps {
				vals[role] = cty.StringVal(label)
			}
			inner.SetAttributeValue(attrDeps, cty.ObjectVal(vals))
		}
		return nil
	case token.KindSequence, token.KindParallel:
		name := blockSequence
		if t.Kind() == token.KindParallel {
			name = blockParallel
		}
		inner := body.AppendNewBlock(name, nil).Body()
		for _, child := range t.Children() {
			if err := appendToken(inner, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cannot write token of type %q", t.Kind())
	}
}
