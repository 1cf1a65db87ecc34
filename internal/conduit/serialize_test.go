package conduit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_Format(t *testing.T) {
	c, err := newConduit(t, "foo", "bar").Chain().
		Invoke("foo", map[string]any{"count": 0}, WithLabel("fx0")).
		Invoke("bar", nil).
		Sequence(0).
		Invoke("bar", nil, WithLabel("tail")).
		Result()
	require.NoError(t, err)

	data, err := c.Serialize()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"taskNames": ["foo", "bar"],
		"tokens": [
			{"type": "method", "name": "bar", "label": "tail"},
			{"type": "sequence", "children": [
				{"type": "method", "name": "foo", "args": {"count": 0}, "label": "fx0"},
				{"type": "method", "name": "bar"}
			]}
		]
	}`, string(data))
}

func TestSerialize_Empty(t *testing.T) {
	data, err := newConduit(t).Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"taskNames": [], "tokens": []}`, string(data))
}

func TestParse_RoundTrip(t *testing.T) {
	// Args are already in their JSON-normalized form so the trees compare equal.
	c, err := newConduit(t, "foo", "bar").Chain().
		Invoke("foo", map[string]any{"count": float64(1), "tags": []any{"x"}}, WithLabel("fx0")).
		Invoke("foo", "plain", WithLabel("fx1"), WithDeps(map[string]string{"prev": "fx0"})).
		Sequence(0).
		Invoke("bar", nil).
		Invoke("bar", true).
		Parallel(3).
		Invoke("foo", nil).
		Result()
	require.NoError(t, err)

	data, err := c.Serialize()
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, c.TaskNames(), parsed.TaskNames())
	assert.Equal(t, c.Len(), parsed.Len())
	if diff := cmp.Diff(c.Tokens(), parsed.Tokens()); diff != "" {
		t.Errorf("token stack mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, parsed.Behavior())

	again, err := parsed.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "not json", input: `{`},
		{name: "reserved name", input: `{"taskNames":["__x"],"tokens":[]}`, wantErr: ErrInvalidTaskNames},
		{name: "unknown method", input: `{"taskNames":["a"],"tokens":[{"type":"method","name":"b"}]}`, wantErr: ErrUnknownTask},
		{
			name:    "unknown nested method",
			input:   `{"taskNames":["a"],"tokens":[{"type":"parallel","children":[{"type":"method","name":"a"},{"type":"method","name":"b"}]}]}`,
			wantErr: ErrUnknownTask,
		},
		{name: "unknown type", input: `{"taskNames":["a"],"tokens":[{"type":"loop"}]}`},
		{name: "single child", input: `{"taskNames":["a"],"tokens":[{"type":"sequence","children":[{"type":"method","name":"a"}]}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestParse_PushesInReverse(t *testing.T) {
	c, err := Parse([]byte(`{"taskNames":["a","b"],"tokens":[
		{"type":"method","name":"a","label":"top"},
		{"type":"method","name":"b","label":"bottom"}
	]}`))
	require.NoError(t, err)

	root, ok := c.Root()
	require.True(t, ok)
	assert.Equal(t, "top", root.Label())

	reduced, err := c.Sequence(0)
	require.NoError(t, err)
	assert.Equal(t, "[seq(b#bottom, a#top)]", reduced.String())
}
