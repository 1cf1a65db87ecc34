package conduit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/specialistvlad/conduit/internal/inmemorystore"
	"github.com/specialistvlad/conduit/internal/token"
)

const tracerName = "github.com/specialistvlad/conduit"

// folder holds the state of one fold.
type folder struct {
	behavior Behavior
	acc      accumulator.Accumulator
	tracer   trace.Tracer
	// claimed holds ids taken by tasks of this fold that may not have
	// recorded their entry yet.
	claimed sync.Map
}

// Fold executes the graph and returns the accumulator holding every invoked
// task's outcome. A nil acc starts from an empty in-memory store. On failure
// the accumulator is returned together with the first error that reached
// the root.
func (c *Conduit) Fold(ctx context.Context, acc accumulator.Accumulator) (accumulator.Accumulator, error) {
	root, err := c.foldable()
	if err != nil {
		return acc, err
	}
	if acc == nil {
		acc = inmemorystore.New()
	}
	return acc, c.run(ctx, root, acc)
}

// FoldAsync validates the conduit and runs the fold on a new goroutine,
// calling done exactly once when it finishes. A validation error is
// returned directly and done is not called.
func (c *Conduit) FoldAsync(ctx context.Context, acc accumulator.Accumulator, done func(error, accumulator.Accumulator)) error {
	root, err := c.foldable()
	if err != nil {
		return err
	}
	if acc == nil {
		acc = inmemorystore.New()
	}
	go func() {
		done(c.run(ctx, root, acc), acc)
	}()
	return nil
}

func (c *Conduit) foldable() (token.Token, error) {
	if !c.Reduced() {
		return token.Token{}, fmt.Errorf("%w: stack holds %d frames", ErrNotReduced, c.Len())
	}
	if c.behavior == nil {
		return token.Token{}, ErrNoBehavior
	}
	root, _ := c.Root()
	return root, nil
}

func (c *Conduit) run(ctx context.Context, root token.Token, acc accumulator.Accumulator) error {
	f := &folder{behavior: c.behavior, acc: acc, tracer: otel.Tracer(tracerName)}

	ctx, span := f.tracer.Start(ctx, "conduit.fold", trace.WithAttributes(
		attribute.Int("conduit.tasks", len(root.Methods())),
		attribute.String("conduit.root", string(root.Kind())),
	))
	defer span.End()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fold started.", "graph", root.String())
	start := time.Now()

	err := f.visit(ctx, root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("Fold failed.", "error", err, "duration", time.Since(start))
		return err
	}
	logger.Debug("Fold finished.", "entries", acc.Len(), "duration", time.Since(start))
	return nil
}

func (f *folder) visit(ctx context.Context, t token.Token) error {
	switch t.Kind() {
	case token.KindMethod:
		return f.method(ctx, t)
	case token.KindSequence:
		return f.sequence(ctx, t.Children())
	case token.KindParallel:
		return f.parallel(ctx, t.Children())
	default:
		return fmt.Errorf("cannot fold token of type %q", t.Kind())
	}
}

// sequence runs children left to right and stops at the first error.
func (f *folder) sequence(ctx context.Context, children []token.Token) error {
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.visit(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// parallel starts every child and waits for all of them. Running siblings
// are not cancelled when one fails.
func (f *folder) parallel(ctx context.Context, children []token.Token) error {
	var g errgroup.Group
	for _, child := range children {
		g.Go(func() error {
			return f.visit(ctx, child)
		})
	}
	return g.Wait()
}

func (f *folder) method(ctx context.Context, t token.Token) error {
	name := t.Name()
	action, ok := f.behavior[name]
	if !ok || action == nil {
		return fmt.Errorf("task %q: %w", name, ErrUnboundTask)
	}

	id := t.Label()
	if id == "" {
		id = uuid.NewString()
	}
	if _, taken := f.claimed.LoadOrStore(id, struct{}{}); taken || f.acc.Has(id) {
		return fmt.Errorf("task %q (%s): %w", id, name, ErrDuplicateLabel)
	}

	ctx = ctxlog.With(ctx, "task", name, "id", id)
	ctx, span := f.tracer.Start(ctx, "conduit.task", trace.WithAttributes(
		attribute.String("conduit.task.name", name),
		attribute.String("conduit.task.id", id),
		attribute.Bool("conduit.task.labeled", t.Label() != ""),
	))
	defer span.End()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Task started.")

	call := Call{ID: id, Name: name, Label: t.Label(), Args: t.Args(), Deps: t.Deps()}
	result, err := invoke(ctx, action, f.acc, call)
	f.acc.Set(id, accumulator.Entry{Result: result, Err: err})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("Task failed.", "error", err)
		return fmt.Errorf("task %q (%s): %w", id, name, err)
	}
	logger.Debug("Task finished.")
	return nil
}

// invoke calls action and turns a panic into an error.
func invoke(ctx context.Context, action Action, acc accumulator.Accumulator, call Call) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return action(ctx, acc, call)
}
