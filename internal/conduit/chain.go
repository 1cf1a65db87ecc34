package conduit

// Chain threads a conduit through a series of builder operations, keeping
// the first error. It lets builder programs read in reverse-Polish order
// without checking an error after every step. A Chain is immutable.
type Chain struct {
	c   *Conduit
	err error
}

// Chain starts a chain from c.
func (c *Conduit) Chain() Chain {
	return Chain{c: c}
}

func (ch Chain) then(f func(*Conduit) (*Conduit, error)) Chain {
	if ch.err != nil {
		return ch
	}
	next, err := f(ch.c)
	if err != nil {
		return Chain{c: ch.c, err: err}
	}
	return Chain{c: next}
}

// Invoke pushes a method token.
func (ch Chain) Invoke(name string, args any, opts ...MethodOption) Chain {
	return ch.then(func(c *Conduit) (*Conduit, error) { return c.Invoke(name, args, opts...) })
}

// Sequence reduces the top n frames into a sequence.
func (ch Chain) Sequence(n int) Chain {
	return ch.then(func(c *Conduit) (*Conduit, error) { return c.Sequence(n) })
}

// Parallel reduces the top n frames into a parallel node.
func (ch Chain) Parallel(n int) Chain {
	return ch.then(func(c *Conduit) (*Conduit, error) { return c.Parallel(n) })
}

// Merge adopts the root of a fully reduced conduit.
func (ch Chain) Merge(other *Conduit) Chain {
	return ch.then(func(c *Conduit) (*Conduit, error) { return c.Merge(other) })
}

// Err returns the first error of the chain.
func (ch Chain) Err() error {
	return ch.err
}

// Result returns the built conduit, or nil and the first error.
func (ch Chain) Result() (*Conduit, error) {
	if ch.err != nil {
		return nil, ch.err
	}
	return ch.c, nil
}
