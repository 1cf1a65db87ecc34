// Package token defines the tree that describes a conduit graph.
//
// A Token is one of three kinds:
//   - Method: a leaf naming a registered task, with opaque arguments, an
//     optional label and an optional role -> label dependency map.
//   - Sequence: an ordered list of at least two children that run one after
//     another.
//   - Parallel: an ordered list of at least two children that run at the
//     same time.
//
// Tokens are immutable values. Constructors copy the slices and maps they
// are given and accessors return copies, so a tree can be shared between
// builders and goroutines without synchronization.
//
// Tokens encode to JSON as union-tagged objects:
//
//	{"type":"method","name":"foo","args":{"n":1},"label":"fx0"}
//	{"type":"sequence","children":[...]}
//	{"type":"parallel","children":[...]}
package token
