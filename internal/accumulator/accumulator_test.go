package accumulator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_MarshalJSON(t *testing.T) {
	ok, err := json.Marshal(Entry{Result: map[string]any{"n": 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"n":1}}`, string(ok))

	failed, err := json.Marshal(Entry{Err: errors.New("boom")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":null,"error":"boom"}`, string(failed))
}

func TestEntry_Failed(t *testing.T) {
	assert.False(t, Entry{Result: 1}.Failed())
	assert.True(t, Entry{Err: errors.New("x")}.Failed())
}
