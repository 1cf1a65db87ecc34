package conduit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/conduit/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConduit(t *testing.T, names ...string) *Conduit {
	t.Helper()
	c, err := New(names)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsInvalidNames(t *testing.T) {
	testCases := []struct {
		name  string
		names []string
	}{
		{"reserved prefix", []string{"foo", "__fold__"}},
		{"bare reserved", []string{"__"}},
		{"empty", []string{"foo", ""}},
		{"duplicate", []string{"foo", "bar", "foo"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.names)
			require.ErrorIs(t, err, ErrInvalidTaskNames)
		})
	}
}

func TestNew_Empty(t *testing.T) {
	c := newConduit(t, "foo", "bar")
	assert.Equal(t, []string{"foo", "bar"}, c.TaskNames())
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Reduced())
	_, ok := c.Root()
	assert.False(t, ok)
	assert.Nil(t, c.Behavior())
	assert.Equal(t, "[]", c.String())
}

func TestInvoke(t *testing.T) {
	c := newConduit(t, "foo")

	c1, err := c.Invoke("foo", map[string]any{"count": 1}, WithLabel("fx0"), WithDeps(map[string]string{"prev": "x"}))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len(), "receiver must be unchanged")
	require.Equal(t, 1, c1.Len())
	assert.True(t, c1.Reduced())

	root, ok := c1.Root()
	require.True(t, ok)
	assert.Equal(t, token.KindMethod, root.Kind())
	assert.Equal(t, "foo", root.Name())
	assert.Equal(t, "fx0", root.Label())
	assert.Equal(t, map[string]any{"count": 1}, root.Args())
	assert.Equal(t, map[string]string{"prev": "x"}, root.Deps())

	_, err = c.Invoke("bar", nil)
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestTask(t *testing.T) {
	c := newConduit(t, "foo", "bar")

	foo, err := c.Task("foo")
	require.NoError(t, err)
	c1, err := foo(c, nil, WithLabel("a"))
	require.NoError(t, err)
	c2, err := foo(c1, nil)
	require.NoError(t, err)
	assert.Equal(t, "[foo foo#a]", c2.String())

	_, err = c.Task("baz")
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestReduce_ConstructionOrder(t *testing.T) {
	c, err := newConduit(t, "a", "b", "c").Chain().
		Invoke("a", nil).
		Invoke("b", nil).
		Invoke("c", nil).
		Sequence(3).
		Result()
	require.NoError(t, err)

	require.True(t, c.Reduced())
	assert.Equal(t, "[seq(a, b, c)]", c.String())
}

func TestReduce_DefaultsToTwoFrames(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2} {
		c, err := newConduit(t, "a", "b", "c").Chain().
			Invoke("a", nil).
			Invoke("b", nil).
			Invoke("c", nil).
			Parallel(n).
			Result()
		require.NoError(t, err)
		assert.Equal(t, "[par(b, c) a]", c.String(), "n=%d", n)
	}
}

func TestReduce_NotEnoughFrames(t *testing.T) {
	c := newConduit(t, "a")

	_, err := c.Sequence(0)
	require.ErrorIs(t, err, ErrNotEnoughFrames)

	c1, err := c.Invoke("a", nil)
	require.NoError(t, err)
	_, err = c1.Parallel(0)
	require.ErrorIs(t, err, ErrNotEnoughFrames)

	c2, err := c1.Invoke("a", nil)
	require.NoError(t, err)
	_, err = c2.Sequence(3)
	require.ErrorIs(t, err, ErrNotEnoughFrames)
	assert.Contains(t, err.Error(), "need 3, have 2")
}

// The ex1 shape: two sequences of foo run in parallel, then bar.
func TestReduce_NestedGraph(t *testing.T) {
	deps := func(prev string) MethodOption { return WithDeps(map[string]string{"prev": prev}) }
	c, err := newConduit(t, "foo", "bar").Chain().
		Invoke("foo", nil, WithLabel("fx0")).
		Invoke("foo", nil, WithLabel("fx1"), deps("fx0")).
		Invoke("foo", nil, WithLabel("fx2"), deps("fx1")).
		Sequence(3).
		Invoke("foo", nil, WithLabel("fy0")).
		Invoke("foo", nil, WithLabel("fy1"), deps("fy0")).
		Sequence(0).
		Parallel(0).
		Invoke("bar", nil, WithLabel("bar")).
		Sequence(0).
		Result()
	require.NoError(t, err)

	assert.True(t, c.Reduced())
	assert.Equal(t, "[seq(par(seq(foo#fx0, foo#fx1, foo#fx2), seq(foo#fy0, foo#fy1)), bar#bar)]", c.String())
}

func TestPersistence_SharedFragments(t *testing.T) {
	base, err := newConduit(t, "a", "b").Chain().
		Invoke("a", nil, WithLabel("x")).
		Invoke("b", nil, WithLabel("y")).
		Result()
	require.NoError(t, err)

	seq, err := base.Sequence(0)
	require.NoError(t, err)
	par, err := base.Parallel(0)
	require.NoError(t, err)

	assert.Equal(t, "[b#y a#x]", base.String())
	assert.Equal(t, "[seq(a#x, b#y)]", seq.String())
	assert.Equal(t, "[par(a#x, b#y)]", par.String())
}

func TestMerge(t *testing.T) {
	fragment, err := newConduit(t, "a", "b").Chain().
		Invoke("a", nil).
		Invoke("b", nil).
		Parallel(0).
		Result()
	require.NoError(t, err)

	c, err := newConduit(t, "a", "b", "c").Chain().
		Invoke("c", nil).
		Merge(fragment).
		Sequence(0).
		Result()
	require.NoError(t, err)
	assert.Equal(t, "[seq(c, par(a, b))]", c.String())

	root, _ := fragment.Root()
	merged, _ := c.Root()
	if diff := cmp.Diff(root, merged.Children()[1]); diff != "" {
		t.Errorf("merged root mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Errors(t *testing.T) {
	target := newConduit(t, "a")

	unresolved, err := newConduit(t, "a").Chain().Invoke("a", nil).Invoke("a", nil).Result()
	require.NoError(t, err)
	_, err = target.Merge(unresolved)
	require.ErrorIs(t, err, ErrUnresolvedGraph)

	_, err = target.Merge(newConduit(t, "a"))
	require.ErrorIs(t, err, ErrUnresolvedGraph)

	_, err = target.Merge(nil)
	require.ErrorIs(t, err, ErrUnresolvedGraph)

	foreign, err := newConduit(t, "z").Invoke("z", nil)
	require.NoError(t, err)
	_, err = target.Merge(foreign)
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestChain_KeepsFirstError(t *testing.T) {
	ch := newConduit(t, "a").Chain().
		Invoke("missing", nil).
		Sequence(5).
		Invoke("a", nil)

	require.ErrorIs(t, ch.Err(), ErrUnknownTask)
	c, err := ch.Result()
	assert.Nil(t, c)
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestWithBehavior_Copies(t *testing.T) {
	c := newConduit(t, "a")
	b := Behavior{"a": noop}

	bound := c.WithBehavior(b)
	b["b"] = noop

	assert.Nil(t, c.Behavior())
	assert.ElementsMatch(t, []string{"a"}, bound.Behavior().Names())
	assert.Equal(t, c.TaskNames(), bound.TaskNames())
}
