// Package conduit builds and runs series-parallel task graphs.
//
// # Building
//
// A Conduit is an immutable builder wrapping a persistent stack of tokens.
// Graphs are written in reverse-Polish style: Invoke pushes a method token
// for a registered task, and Sequence/Parallel pop the top frames and push
// them back as one composite token. A conduit whose stack holds exactly one
// token is "fully reduced" and describes a complete graph.
//
//	c, _ := conduit.New([]string{"foo", "bar"})
//	c, err := c.Chain().
//		Invoke("foo", args, conduit.WithLabel("fx0")).
//		Invoke("foo", args, conduit.WithLabel("fx1"), conduit.WithDeps(map[string]string{"prev": "fx0"})).
//		Sequence(0).
//		Invoke("bar", nil).
//		Parallel(0).
//		Result()
//
// Every operation returns a new Conduit. Fragments can be shared and
// recombined freely; Merge adopts the root of another fully reduced conduit.
//
// # Serialization
//
// Serialize renders the task names and the stack contents as canonical JSON.
// Parse rebuilds an equivalent conduit without behavior. Behavior is code
// and is bound separately with WithBehavior, possibly in another process and
// to different implementations.
//
// # Folding
//
// Fold walks the single root token of a reduced, behavior-bound conduit.
// Each method token invokes its Action, whose outcome is stored in the
// accumulator under the token's label (or a generated id) before the walk
// moves on. Sequence children run left to right and stop at the first
// error. Parallel children all start at once and are all awaited; the first
// error is reported. Already-invoked tasks are never cancelled, and the
// accumulator returned with the error holds every task that actually ran.
package conduit
