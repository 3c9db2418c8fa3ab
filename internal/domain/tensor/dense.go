// Package tensor provides the dense three-dimensional array used to hold
// levels indexed by [source, receiver, band].
package tensor

import "fmt"

// Dense is a [sources x receivers x bands] array of float64 stored in a flat
// slice, band index varying fastest.
type Dense struct {
	ns, nr, nb int
	data       []float64
}

// Shape is the extent of a Dense along each axis.
type Shape struct {
	Sources   int
	Receivers int
	Bands     int
}

func (s Shape) String() string {
	return fmt.Sprintf("[%d x %d x %d]", s.Sources, s.Receivers, s.Bands)
}

// New allocates a zeroed tensor.
func New(sources, receivers, bands int) (*Dense, error) {
	if sources <= 0 || receivers <= 0 || bands <= 0 {
		return nil, fmt.Errorf("New(%d,%d,%d): %w", sources, receivers, bands, ErrBadShape)
	}
	return &Dense{
		ns:   sources,
		nr:   receivers,
		nb:   bands,
		data: make([]float64, sources*receivers*bands),
	}, nil
}

// NewFilled allocates a tensor with every cell set to v.
func NewFilled(sources, receivers, bands int, v float64) (*Dense, error) {
	t, err := New(sources, receivers, bands)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = v
	}
	return t, nil
}

// Shape returns the tensor extents.
func (t *Dense) Shape() Shape {
	return Shape{Sources: t.ns, Receivers: t.nr, Bands: t.nb}
}

// SameShape reports whether t and o have identical extents.
func (t *Dense) SameShape(o *Dense) bool {
	return o != nil && t.ns == o.ns && t.nr == o.nr && t.nb == o.nb
}

func (t *Dense) offset(src, rec int) (int, error) {
	if src < 0 || src >= t.ns || rec < 0 || rec >= t.nr {
		return 0, fmt.Errorf("cell(%d,%d) of %s: %w", src, rec, t.Shape(), ErrOutOfRange)
	}
	return (src*t.nr + rec) * t.nb, nil
}

// At returns the value at (src, rec, band).
func (t *Dense) At(src, rec, band int) (float64, error) {
	off, err := t.offset(src, rec)
	if err != nil {
		return 0, err
	}
	if band < 0 || band >= t.nb {
		return 0, fmt.Errorf("band %d of %s: %w", band, t.Shape(), ErrOutOfRange)
	}
	return t.data[off+band], nil
}

// Set stores v at (src, rec, band).
func (t *Dense) Set(src, rec, band int, v float64) error {
	off, err := t.offset(src, rec)
	if err != nil {
		return err
	}
	if band < 0 || band >= t.nb {
		return fmt.Errorf("band %d of %s: %w", band, t.Shape(), ErrOutOfRange)
	}
	t.data[off+band] = v
	return nil
}

// Cell returns the bands of (src, rec). The slice aliases the tensor
// storage: writes through it modify t.
func (t *Dense) Cell(src, rec int) ([]float64, error) {
	off, err := t.offset(src, rec)
	if err != nil {
		return nil, err
	}
	return t.data[off : off+t.nb : off+t.nb], nil
}

// SetCell copies values into the bands of (src, rec).
func (t *Dense) SetCell(src, rec int, values []float64) error {
	cell, err := t.Cell(src, rec)
	if err != nil {
		return err
	}
	if len(values) != t.nb {
		return fmt.Errorf("cell(%d,%d) got %d bands, want %d: %w", src, rec, len(values), t.nb, ErrShapeMismatch)
	}
	copy(cell, values)
	return nil
}

// Clone returns a deep copy of t.
func (t *Dense) Clone() *Dense {
	c := &Dense{ns: t.ns, nr: t.nr, nb: t.nb, data: make([]float64, len(t.data))}
	copy(c.data, t.data)
	return c
}

// Raw returns the backing slice, band index varying fastest, then
// receiver, then source. It aliases the tensor storage.
func (t *Dense) Raw() []float64 {
	return t.data
}
