// Package index assigns stable positions to names in first-seen order.
package index

// Index records names and the position they were first seen at. Positions
// are dense, starting at zero, and never change once assigned.
type Index interface {
	// SeenAndRecord returns the position of name, recording it at the next
	// free position if it was not seen before. seen reports whether the
	// name was already present.
	SeenAndRecord(name string) (pos int, seen bool)

	// Lookup returns the position of name without recording it.
	Lookup(name string) (pos int, ok bool)

	// Names returns the recorded names ordered by position.
	Names() []string

	Len() int
}

// orderedIndex implements Index with a map for lookups and a slice for order.
type orderedIndex struct {
	pos   map[string]int
	names []string
}

// NewOrdered creates an empty Index.
func NewOrdered(opts ...Option) Index {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	idx := &orderedIndex{
		pos:   make(map[string]int, cfg.capacity),
		names: make([]string, 0, cfg.capacity),
	}
	for _, name := range cfg.seed {
		idx.SeenAndRecord(name)
	}
	return idx
}

func (x *orderedIndex) SeenAndRecord(name string) (int, bool) {
	if p, ok := x.pos[name]; ok {
		return p, true
	}
	p := len(x.names)
	x.pos[name] = p
	x.names = append(x.names, name)
	return p, false
}

func (x *orderedIndex) Lookup(name string) (int, bool) {
	p, ok := x.pos[name]
	return p, ok
}

func (x *orderedIndex) Names() []string {
	out := make([]string, len(x.names))
	copy(out, x.names)
	return out
}

func (x *orderedIndex) Len() int {
	return len(x.names)
}
