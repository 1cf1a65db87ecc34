package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	graphhcl "github.com/specialistvlad/conduit/internal/hcl"
	"github.com/specialistvlad/conduit/internal/otel"
)

// Report is the JSON document written after a fold.
type Report struct {
	Results  map[string]accumulator.Entry `json:"results"`
	Error    string                       `json:"error,omitempty"`
	Duration string                       `json:"duration"`
}

// Run executes the main application logic: it either emits the graph in
// another format or folds it and writes a Report.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if a.config.Emit != "" {
		return a.emit()
	}

	shutdown, err := otel.Setup(ctx, a.config.OTLPEndpoint, a.config.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err = errors.Join(err, shutdown(shutdownCtx))
	}()

	if a.config.HealthcheckPort > 0 {
		if _, err := a.startHealthcheckServer(); err != nil {
			return err
		}
		defer func() { err = errors.Join(err, a.closeHealthcheckServer()) }()
	} else {
		a.logger.Debug("Health check server not started: disabled")
	}

	if err := a.registry.Validate(ctx, a.graph.TaskNames()); err != nil {
		return err
	}

	a.logger.Info("🚀 Starting fold...", "graph", a.graph.String())
	start := time.Now()
	acc, foldErr := a.graph.WithBehavior(a.registry.Behavior()).Fold(ctx, nil)
	report := Report{Duration: time.Since(start).String()}
	if acc != nil {
		report.Results = acc.Snapshot()
	}
	if foldErr != nil {
		report.Error = foldErr.Error()
		a.logger.Error("Fold failed.", "error", foldErr)
	} else {
		a.logger.Info("🏁 Fold finished.", "tasks", len(report.Results), "duration", report.Duration)
	}

	if err := a.writeReport(report); err != nil {
		return errors.Join(foldErr, err)
	}
	if foldErr != nil {
		return fmt.Errorf("execution failed: %w", foldErr)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) writeReport(report Report) error {
	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// emit writes the loaded graph in the configured format.
func (a *App) emit() error {
	var (
		data []byte
		err  error
	)
	switch a.config.Emit {
	case EmitJSON:
		data, err = a.graph.Serialize()
		data = append(data, '\n')
	case EmitHCL:
		data, err = graphhcl.Write(a.graph)
	default:
		err = fmt.Errorf("invalid emit format %q", a.config.Emit)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("Emitting graph.", "format", a.config.Emit, "bytes", len(data))
	_, err = a.outW.Write(data)
	return err
}
