package env_vars

import (
	"context"
	"testing"

	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/inmemorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvVars(t *testing.T) {
	t.Setenv("CONDUIT_TEST_A", "1")
	t.Setenv("CONDUIT_TEST_B", "two")
	t.Setenv("OTHER_CONDUIT_VAR", "x")

	got, err := ReadEnvVars(context.Background(), inmemorystore.New(), conduit.Call{
		Name: "env_vars",
		Args: map[string]any{"prefix": "CONDUIT_TEST_"},
	})
	require.NoError(t, err)
	assert.Equal(t, &Output{All: map[string]string{"CONDUIT_TEST_A": "1", "CONDUIT_TEST_B": "two"}}, got)
}

func TestReadEnvVars_NoArgs(t *testing.T) {
	t.Setenv("CONDUIT_TEST_ALL", "yes")

	got, err := ReadEnvVars(context.Background(), inmemorystore.New(), conduit.Call{Name: "env_vars"})
	require.NoError(t, err)
	assert.Equal(t, "yes", got.(*Output).All["CONDUIT_TEST_ALL"])
}
