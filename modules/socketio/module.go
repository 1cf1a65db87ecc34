package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/conduit/internal/accumulator"
	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/specialistvlad/conduit/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the socketio task.
type Input struct {
	URL                string         `json:"url"`
	Namespace          string         `json:"namespace"`
	OnEvent            string         `json:"on_event"`
	EmitEvent          string         `json:"emit_event"`
	EmitData           map[string]any `json:"emit_data"`
	Timeout            string         `json:"timeout"`
	InsecureSkipVerify bool           `json:"insecure_skip_verify"`
}

// Output defines the data structure returned by the task.
type Output struct {
	ResponseData any `json:"response_data"`
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value *Output
	err   error
}

// Exchange connects to a Socket.IO server, optionally emits an event, and
// waits for on_event. The first payload of that event is the task result.
func Exchange(ctx context.Context, _ accumulator.Accumulator, call conduit.Call) (any, error) {
	var input Input
	if err := registry.DecodeArgs(call.Args, &input); err != nil {
		return nil, err
	}
	if input.URL == "" || input.OnEvent == "" {
		return nil, fmt.Errorf("arguments 'url' and 'on_event' are required")
	}
	if input.Namespace == "" {
		input.Namespace = "/"
	}

	logger := ctxlog.FromContext(ctx).With("url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	timeout := defaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			logger.Warn("Failed to parse timeout, using default", "inputTimeout", input.Timeout, "default", defaultTimeout, "error", err)
		} else {
			timeout = d
		}
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q must be absolute", input.URL)
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	finish := func(res opResult) {
		select {
		case done <- res:
		default:
		}
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			jsonData, _ := json.Marshal(input.EmitData)
			logger.Info("Emitting event", "event", input.EmitEvent, "data", string(jsonData))
			io.Emit(input.EmitEvent, input.EmitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		finish(opResult{err: err})
	})

	io.On(types.EventName(input.OnEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		finish(opResult{value: &Output{ResponseData: responseData}})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return res.value, nil
	}
}

// Register registers the action with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("socketio", Exchange)
}
