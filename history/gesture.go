package history

// Coalescer tracks which gestures are in progress so that a gesture records
// exactly one history entry: the state before it started.
type Coalescer[K comparable] struct {
	active map[K]bool
}

// NewCoalescer returns an idle coalescer.
func NewCoalescer[K comparable]() *Coalescer[K] {
	return &Coalescer[K]{active: map[K]bool{}}
}

// Begin marks kind active. It returns true only on the transition from idle,
// which is when the caller must push a snapshot.
func (c *Coalescer[K]) Begin(kind K) bool {
	if c.active[kind] {
		return false
	}
	c.active[kind] = true
	return true
}

// Active reports whether kind is between Begin and End.
func (c *Coalescer[K]) Active(kind K) bool { return c.active[kind] }

// End marks kind idle and reports whether it was active.
func (c *Coalescer[K]) End(kind K) bool {
	was := c.active[kind]
	delete(c.active, kind)
	return was
}

// Reset ends every gesture.
func (c *Coalescer[K]) Reset() { clear(c.active) }
