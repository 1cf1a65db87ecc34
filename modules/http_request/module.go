package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/specialistvlad/conduit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client performs the requests. Defaults to a client with a 30s timeout.
	Client *http.Client
}

// Input defines the arguments for the http_request task.
type Input struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
	// ExpectStatus fails the task when the response has another status.
	ExpectStatus int `json:"expect_status"`
}

// Output defines the data structure returned by the task.
type Output struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Request is the action for the 'http_request' task.
func (m *Module) Request(ctx context.Context, _ accumulator.Accumulator, call conduit.Call) (any, error) {
	var input Input
	if err := registry.DecodeArgs(call.Args, &input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, fmt.Errorf("argument 'url' is required")
	}
	if input.Method == "" {
		input.Method = http.MethodGet
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request", "method", input.Method, "url", input.URL)

	var body io.Reader
	if input.Body != "" {
		body = strings.NewReader(input.Body)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(input.Method), input.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	client := m.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Output{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
		Body:       string(bodyBytes),
	}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}
	if input.ExpectStatus != 0 && resp.StatusCode != input.ExpectStatus {
		return out, fmt.Errorf("unexpected status %d, want %d", resp.StatusCode, input.ExpectStatus)
	}
	return out, nil
}

// Register registers the action with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("http_request", m.Request)
}
