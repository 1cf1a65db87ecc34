package socketio

import (
	"context"
	"testing"

	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/inmemorystore"
	"github.com/specialistvlad/conduit/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchange_InvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{name: "missing url", args: map[string]any{"on_event": "pong"}, wantErr: "are required"},
		{name: "missing event", args: map[string]any{"url": "http://localhost:1"}, wantErr: "are required"},
		{name: "relative url", args: map[string]any{"url": "/socket.io", "on_event": "pong"}, wantErr: "must be absolute"},
		{name: "bad types", args: map[string]any{"url": 3}, wantErr: "invalid args"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Exchange(context.Background(), inmemorystore.New(), conduit.Call{Name: "socketio", Args: tc.args})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestExchange_UnreachableServer(t *testing.T) {
	_, err := Exchange(context.Background(), inmemorystore.New(), conduit.Call{
		Name: "socketio",
		Args: map[string]any{
			"url":      "http://127.0.0.1:1/socket.io/",
			"on_event": "pong",
			"timeout":  "300ms",
		},
	})
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Equal(t, []string{"socketio"}, r.Names())
}
