// Package testutil holds shared helpers for tests that run whole graphs
// through the application.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/conduit/internal/app"
	"github.com/specialistvlad/conduit/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// ReportEntry mirrors one accumulator entry of app.Report after a JSON round trip.
type ReportEntry struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
	// Results is the decoded report; nil when the run emitted no report.
	Results map[string]ReportEntry
}

// RunGraph writes source to a temporary graph file named name (its extension
// selects the format) and runs it through a fresh App with the given modules.
func RunGraph(t *testing.T, name, source string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunGraphWithContext(context.Background(), t, name, source, modules...)
}

// RunGraphWithContext is RunGraph with a caller-provided context.
func RunGraphWithContext(ctx context.Context, t *testing.T, name, source string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))

	config, err := app.NewConfig(app.Config{GraphPath: path, LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	result := &HarnessResult{}

	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		result.App, result.Err = app.NewApp(ctx, out, logs, config, modules...)
	}()
	if panicErr != nil {
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
	}
	if result.Err == nil {
		result.Err = result.App.Run(ctx)
	}

	result.Output = out.String()
	result.LogOutput = logs.String()
	if os.Getenv("CONDUIT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}

	var report struct {
		Results map[string]ReportEntry `json:"results"`
	}
	// Actions such as print may write before the report.
	start := strings.Index(result.Output, "{\n  \"results\"")
	if start >= 0 && json.Unmarshal([]byte(result.Output[start:]), &report) == nil {
		result.Results = report.Results
	}
	return result
}
