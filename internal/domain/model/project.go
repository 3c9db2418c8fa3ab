package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Element is a named source or receiver registered on a result.
type Element struct {
	ID   uuid.UUID
	Name string
}

// NewElement returns an element with a fresh identifier.
func NewElement(name string) Element {
	return Element{ID: uuid.New(), Name: name}
}

type pair struct {
	receiver string
	source   string
}

// Result is the outcome of one computation: the sources and receivers it
// covers and one spectrum per (receiver, source) pair that was solved.
// Receivers may additionally carry a total spectrum over all sources.
type Result struct {
	sources   []Element
	receivers []Element
	srcIdx    map[string]int
	recIdx    map[string]int
	spectra   map[pair]Spectrum
	totals    map[string]Spectrum
	useLw     bool
}

// NewResult returns an empty result with the Lw column enabled.
func NewResult() *Result {
	return &Result{
		srcIdx: make(map[string]int),
		recIdx: make(map[string]int),
		useLw:  true,
	}
}

// AddSource registers src. Names are unique within a result.
func (r *Result) AddSource(src Element) error {
	if _, ok := r.srcIdx[src.Name]; ok {
		return fmt.Errorf("%w: source %q", ErrDuplicateElement, src.Name)
	}
	r.srcIdx[src.Name] = len(r.sources)
	r.sources = append(r.sources, src)
	return nil
}

// AddReceiver registers rec. Names are unique within a result.
func (r *Result) AddReceiver(rec Element) error {
	if _, ok := r.recIdx[rec.Name]; ok {
		return fmt.Errorf("%w: receiver %q", ErrDuplicateElement, rec.Name)
	}
	r.recIdx[rec.Name] = len(r.receivers)
	r.receivers = append(r.receivers, rec)
	return nil
}

// BuildMatrix allocates spectrum storage for the registered elements.
// Spectra set before the call are kept.
func (r *Result) BuildMatrix() {
	if r.spectra == nil {
		r.spectra = make(map[pair]Spectrum, len(r.sources)*len(r.receivers))
	}
	if r.totals == nil {
		r.totals = make(map[string]Spectrum, len(r.receivers))
	}
}

// Sources returns the registered sources in registration order.
func (r *Result) Sources() []Element {
	out := make([]Element, len(r.sources))
	copy(out, r.sources)
	return out
}

// Receivers returns the registered receivers in registration order.
func (r *Result) Receivers() []Element {
	out := make([]Element, len(r.receivers))
	copy(out, r.receivers)
	return out
}

// SetSpectrum stores the spectrum received at receiver from source.
func (r *Result) SetSpectrum(receiver, source string, s Spectrum) error {
	if r.spectra == nil {
		return ErrMatrixNotBuilt
	}
	if _, ok := r.recIdx[receiver]; !ok {
		return fmt.Errorf("%w: receiver %q", ErrUnknownElement, receiver)
	}
	if _, ok := r.srcIdx[source]; !ok {
		return fmt.Errorf("%w: source %q", ErrUnknownElement, source)
	}
	r.spectra[pair{receiver: receiver, source: source}] = s
	return nil
}

// Spectrum returns the spectrum received at receiver from source, and
// whether the pair exists in the result.
func (r *Result) Spectrum(receiver, source string) (Spectrum, bool) {
	s, ok := r.spectra[pair{receiver: receiver, source: source}]
	return s, ok
}

// SetTotal attaches the all-sources spectrum to receiver.
func (r *Result) SetTotal(receiver string, s Spectrum) error {
	if r.totals == nil {
		return ErrMatrixNotBuilt
	}
	if _, ok := r.recIdx[receiver]; !ok {
		return fmt.Errorf("%w: receiver %q", ErrUnknownElement, receiver)
	}
	r.totals[receiver] = s
	return nil
}

// Total returns the all-sources spectrum of receiver, if one was set.
func (r *Result) Total(receiver string) (Spectrum, bool) {
	s, ok := r.totals[receiver]
	return s, ok
}

// UseLw reports whether the result table shows the source power column.
func (r *Result) UseLw() bool { return r.useLw }

// DisableLw hides the source power column, as for derived indicators
// where a per-source Lw has no meaning.
func (r *Result) DisableLw() { r.useLw = false }

// Computation is a named propagation run and its result.
type Computation struct {
	ID     uuid.UUID
	Name   string
	Result *Result
}

// Project groups the computations run over one site.
type Project struct {
	Name         string
	Computations []*Computation
}

// AddComputation appends an empty computation named name and returns it.
func (p *Project) AddComputation(name string) *Computation {
	c := &Computation{ID: uuid.New(), Name: name, Result: NewResult()}
	p.Computations = append(p.Computations, c)
	return c
}

// ComputationNames returns the computation names in project order.
func (p *Project) ComputationNames() []string {
	names := make([]string, len(p.Computations))
	for i, c := range p.Computations {
		names[i] = c.Name
	}
	return names
}
