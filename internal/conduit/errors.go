package conduit

import "errors"

var (
	// ErrInvalidTaskNames is returned when a task name set is empty-named,
	// duplicated or collides with the reserved "__" prefix.
	ErrInvalidTaskNames = errors.New("invalid task names")
	// ErrUnknownTask is returned when a token names a task that the conduit
	// was not created with.
	ErrUnknownTask = errors.New("unknown task")
	// ErrNotEnoughFrames is returned when a reduction asks for more frames
	// than the stack holds.
	ErrNotEnoughFrames = errors.New("not enough frames")
	// ErrUnresolvedGraph is returned when merging a conduit that is not
	// fully reduced.
	ErrUnresolvedGraph = errors.New("unresolved graph")
	// ErrNotReduced is returned by Fold when the stack does not hold exactly
	// one token.
	ErrNotReduced = errors.New("graph is not fully reduced")
	// ErrNoBehavior is returned by Fold when no behavior is bound.
	ErrNoBehavior = errors.New("no behavior bound")
	// ErrUnboundTask is returned during a fold when a method token has no
	// implementation in the bound behavior.
	ErrUnboundTask = errors.New("unbound task")
	// ErrDuplicateLabel is returned during a fold when a second task tries
	// to record under an id that is already taken.
	ErrDuplicateLabel = errors.New("duplicate label")
)
