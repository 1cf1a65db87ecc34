package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGraph(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type duplicateModule struct{}

func (duplicateModule) Register(r *registry.Registry) {
	noop := func(context.Context, accumulator.Accumulator, conduit.Call) (any, error) { return nil, nil }
	r.RegisterAction("twice", noop)
	r.RegisterAction("twice", noop)
}

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeGraph(t, "main.hcl", "tasks = [\"twice\"]\ntask \"twice\" {}\n")
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, &bytes.Buffer{}, []string{path}, duplicateModule{})

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	assert.Contains(t, runErr.Error(), "application startup panicked")
	assert.Contains(t, runErr.Error(), "already registered")
}

func TestRun_InvalidGraph(t *testing.T) {
	t.Parallel()

	path := writeGraph(t, "main.hcl", "task \"a\" {\n")
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_FoldsGraph(t *testing.T) {
	t.Parallel()

	path := writeGraph(t, "main.json", `{"taskNames":["increment"],"tokens":[
		{"type":"sequence","children":[
			{"type":"method","name":"increment","label":"one"},
			{"type":"method","name":"increment","label":"two","deps":{"prev":"one"}}
		]}
	]}`)
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{"--log-level", "debug", path})
	require.NoError(t, err)

	var report struct {
		Results map[string]struct {
			Result map[string]any `json:"result"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report), out.String())
	assert.Equal(t, float64(2), report.Results["two"].Result["count"])
}
