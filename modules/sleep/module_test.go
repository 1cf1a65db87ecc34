package sleep

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/inmemorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleep(t *testing.T) {
	start := time.Now()
	got, err := Sleep(context.Background(), inmemorystore.New(), conduit.Call{Args: map[string]any{"duration": "20ms"}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.NotEmpty(t, got.(*Output).Slept)
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sleep(ctx, inmemorystore.New(), conduit.Call{Args: map[string]any{"duration": "1h"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSleep_InvalidDuration(t *testing.T) {
	_, err := Sleep(context.Background(), inmemorystore.New(), conduit.Call{Args: map[string]any{"duration": "soon"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid duration "soon"`)
}
