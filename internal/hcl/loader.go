package hcl

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const (
	attrTasks = "tasks"
	attrArgs  = "args"
	attrLabel = "label"
	attrDeps  = "deps"

	blockTask     = "task"
	blockSequence = "sequence"
	blockParallel = "parallel"
)

// Load reads the graph file at path.
func Load(ctx context.Context, path string) (*conduit.Conduit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return LoadBytes(ctx, src, path)
}

// LoadBytes builds a conduit from HCL source. filename is only used in
// diagnostics.
func LoadBytes(ctx context.Context, src []byte, filename string) (*conduit.Conduit, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected body type %T in %s", file.Body, filename)
	}

	l := &loader{evalCtx: newEvalContext()}
	c, err := l.root(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}

	logger.Debug("HCL loading complete.", "tasks", len(c.TaskNames()), "frames", c.Len())
	return c, nil
}

type loader struct {
	evalCtx *hcl.EvalContext
}

func (l *loader) root(body *hclsyntax.Body) (*conduit.Conduit, error) {
	for name, attr := range body.Attributes {
		if name != attrTasks {
			return nil, diagError("Unsupported argument", fmt.Sprintf("An argument named %q is not expected at the top level.", name), attr.SrcRange)
		}
	}
	attr, ok := body.Attributes[attrTasks]
	if !ok {
		return nil, diagError("Missing required argument", `The argument "tasks" is required.`, body.SrcRange)
	}
	names, err := l.stringList(attr)
	if err != nil {
		return nil, err
	}

	c, err := conduit.New(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", attr.SrcRange, err)
	}
	for _, block := range body.Blocks {
		if c, err = l.push(c, block); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// push adds the frame described by block on top of c.
func (l *loader) push(c *conduit.Conduit, block *hclsyntax.Block) (*conduit.Conduit, error) {
	switch block.Type {
	case blockTask:
		return l.task(c, block)
	case blockSequence, blockParallel:
		return l.composite(c, block)
	default:
		return nil, diagError("Unsupported block type", fmt.Sprintf("Blocks of type %q are not expected here.", block.Type), block.DefRange())
	}
}

func (l *loader) task(c *conduit.Conduit, block *hclsyntax.Block) (*conduit.Conduit, error) {
	if len(block.Labels) != 1 {
		return nil, diagError("Invalid task block", "A task block needs exactly one label: the task name.", block.DefRange())
	}
	if len(block.Body.Blocks) > 0 {
		return nil, diagError("Unexpected block", "A task block cannot contain other blocks.", block.Body.Blocks[0].DefRange())
	}

	var (
		args any
		opts []conduit.MethodOption
	)
	for name, attr := range block.Body.Attributes {
		switch name {
		case attrArgs:
			val, err := l.eval(attr)
			if err != nil {
				return nil, err
			}
			if args, err = ToGo(val); err != nil {
				return nil, fmt.Errorf("%s: %w", attr.SrcRange, err)
			}
		case attrLabel:
			label, err := l.stringValue(attr)
			if err != nil {
				return nil, err
			}
			opts = append(opts, conduit.WithLabel(label))
		case attrDeps:
			deps, err := l.stringMap(attr)
			if err != nil {
				return nil, err
			}
			opts = append(opts, conduit.WithDeps(deps))
		default:
			return nil, diagError("Unsupported argument", fmt.Sprintf("An argument named %q is not expected in a task block.", name), attr.SrcRange)
		}
	}

	next, err := c.Invoke(block.Labels[0], args, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", block.DefRange(), err)
	}
	return next, nil
}

func (l *loader) composite(c *conduit.Conduit, block *hclsyntax.Block) (*conduit.Conduit, error) {
	if len(block.Labels) > 0 {
		return nil, diagError("Unexpected label", fmt.Sprintf("A %s block takes no labels.", block.Type), block.DefRange())
	}
	if len(block.Body.Attributes) > 0 {
		name := slices.Sorted(maps.Keys(block.Body.Attributes))[0]
		return nil, diagError("Unsupported argument", fmt.Sprintf("An argument named %q is not expected in a %s block.", name, block.Type), block.Body.Attributes[name].SrcRange)
	}
	children := block.Body.Blocks
	if len(children) < 2 {
		return nil, diagError("Not enough children", fmt.Sprintf("A %s block needs at least 2 nested blocks, got %d.", block.Type, len(children)), block.DefRange())
	}

	var err error
	for _, child := range children {
		if c, err = l.push(c, child); err != nil {
			return nil, err
		}
	}
	if block.Type == blockSequence {
		c, err = c.Sequence(len(children))
	} else {
		c, err = c.Parallel(len(children))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", block.DefRange(), err)
	}
	return c, nil
}

func (l *loader) eval(attr *hclsyntax.Attribute) (cty.Value, error) {
	val, diags := attr.Expr.Value(l.evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}

func (l *loader) stringValue(attr *hclsyntax.Attribute) (string, error) {
	val, err := l.evalAs(attr, cty.String)
	if err != nil || val.IsNull() {
		return "", err
	}
	return val.AsString(), nil
}

func (l *loader) stringList(attr *hclsyntax.Attribute) ([]string, error) {
	val, err := l.evalAs(attr, cty.List(cty.String))
	if err != nil || val.IsNull() {
		return nil, err
	}
	out := make([]string, 0, val.LengthInt())
	for _, v := range val.AsValueSlice() {
		if v.IsNull() {
			return nil, diagError("Invalid value", "Task names cannot be null.", attr.SrcRange)
		}
		out = append(out, v.AsString())
	}
	return out, nil
}

func (l *loader) stringMap(attr *hclsyntax.Attribute) (map[string]string, error) {
	val, err := l.evalAs(attr, cty.Map(cty.String))
	if err != nil || val.IsNull() {
		return nil, err
	}
	out := make(map[string]string, val.LengthInt())
	for k, v := range val.AsValueMap() {
		if v.IsNull() {
			return nil, diagError("Invalid value", fmt.Sprintf("Dependency %q cannot be null.", k), attr.SrcRange)
		}
		out[k] = v.AsString()
	}
	return out, nil
}

// evalAs evaluates attr and converts the result to ty.
func (l *loader) evalAs(attr *hclsyntax.Attribute, ty cty.Type) (cty.Value, error) {
	val, err := l.eval(attr)
	if err != nil {
		return cty.NilVal, err
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return cty.NilVal, diagError("Incorrect attribute value type",
			fmt.Sprintf("Inappropriate value for attribute %q: %s.", attr.Name, err), attr.SrcRange)
	}
	if !converted.IsWhollyKnown() {
		return cty.NilVal, diagError("Unknown value", fmt.Sprintf("The value of %q must be known.", attr.Name), attr.SrcRange)
	}
	return converted, nil
}

func diagError(summary, detail string, rng hcl.Range) error {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}
