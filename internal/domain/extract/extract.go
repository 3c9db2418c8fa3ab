// Package extract turns the three period computations of a project into
// dense level tensors over a shared, reconciled set of sources and receivers.
package extract

import (
	"fmt"

	"github.com/okian/lden/internal/domain/index"
	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/internal/domain/tensor"
)

// Reconciliation is the canonical ordering of sources and receivers over
// the computations selected for the three periods.
type Reconciliation struct {
	names     model.PeriodNames
	sources   []model.Element
	receivers []model.Element
	srcIdx    index.Index
	recIdx    index.Index
}

// Extraction bundles a reconciliation with one level tensor per period.
type Extraction struct {
	*Reconciliation
	Levels [model.NumPeriods]*tensor.Dense
}

// Extract reconciles the selected computations and builds their tensors.
func Extract(computations []*model.Computation, names model.PeriodNames) (*Extraction, error) {
	rec, err := Reconcile(computations, names)
	if err != nil {
		return nil, err
	}
	levels, err := rec.Tensors(computations)
	if err != nil {
		return nil, err
	}
	return &Extraction{Reconciliation: rec, Levels: levels}, nil
}

// Reconcile checks that every period name matches a computation, then
// builds the union of sources and of receivers, in first-seen order, over
// all computations whose name is one of the period names.
func Reconcile(computations []*model.Computation, names model.PeriodNames) (*Reconciliation, error) {
	present := index.NewOrdered(index.WithCapacity(len(computations)))
	for _, c := range computations {
		present.SeenAndRecord(c.Name)
	}
	for _, p := range model.Periods {
		if _, ok := present.Lookup(names[p]); !ok {
			return nil, fmt.Errorf("%w: %q for the %s period (project has %q)", ErrComputationNotFound, names[p], p, present.Names())
		}
	}

	r := &Reconciliation{
		names:  names,
		srcIdx: index.NewOrdered(),
		recIdx: index.NewOrdered(),
	}
	for _, c := range computations {
		if len(r.slotsFor(c.Name)) == 0 {
			continue
		}
		if c.Result == nil {
			return nil, fmt.Errorf("%w: %q", ErrNilResult, c.Name)
		}
		for _, s := range c.Result.Sources() {
			if _, seen := r.srcIdx.SeenAndRecord(s.Name); !seen {
				r.sources = append(r.sources, s)
			}
		}
		for _, e := range c.Result.Receivers() {
			if _, seen := r.recIdx.SeenAndRecord(e.Name); !seen {
				r.receivers = append(r.receivers, e)
			}
		}
	}

	if len(r.sources) == 0 || len(r.receivers) == 0 {
		return nil, fmt.Errorf("%w: %d sources, %d receivers", ErrEmptyReconciliation, len(r.sources), len(r.receivers))
	}
	return r, nil
}

// Names returns the period to computation name mapping.
func (r *Reconciliation) Names() model.PeriodNames { return r.names }

// Sources returns the reconciled sources.
func (r *Reconciliation) Sources() []model.Element {
	out := make([]model.Element, len(r.sources))
	copy(out, r.sources)
	return out
}

// Receivers returns the reconciled receivers.
func (r *Reconciliation) Receivers() []model.Element {
	out := make([]model.Element, len(r.receivers))
	copy(out, r.receivers)
	return out
}

// SourceNames returns the reconciled source names in canonical order.
func (r *Reconciliation) SourceNames() []string { return r.srcIdx.Names() }

// ReceiverNames returns the reconciled receiver names in canonical order.
func (r *Reconciliation) ReceiverNames() []string { return r.recIdx.Names() }

// Shape returns the shape shared by every period tensor.
func (r *Reconciliation) Shape() tensor.Shape {
	return tensor.Shape{Sources: len(r.sources), Receivers: len(r.receivers), Bands: model.NumBands}
}

func (r *Reconciliation) slotsFor(name string) []model.Period {
	var slots []model.Period
	for _, p := range model.Periods {
		if r.names[p] == name {
			slots = append(slots, p)
		}
	}
	return slots
}

// Selected returns the computation assigned to each period, following the
// same last-match rule as Tensors.
func (r *Reconciliation) Selected(computations []*model.Computation) [model.NumPeriods]*model.Computation {
	var out [model.NumPeriods]*model.Computation
	for _, c := range computations {
		for _, p := range r.slotsFor(c.Name) {
			out[p] = c
		}
	}
	return out
}

// Tensors builds one [source x receiver x band] tensor per period. Cells
// of pairs missing from a computation's result hold model.Sentinel.
//
// Computations are visited in project order and a computation is assigned
// to every period whose name it carries; when several computations share a
// period name, the last one wins.
func (r *Reconciliation) Tensors(computations []*model.Computation) ([model.NumPeriods]*tensor.Dense, error) {
	var out [model.NumPeriods]*tensor.Dense
	shape := r.Shape()

	for _, c := range computations {
		slots := r.slotsFor(c.Name)
		if len(slots) == 0 {
			continue
		}
		if c.Result == nil {
			return out, fmt.Errorf("%w: %q", ErrNilResult, c.Name)
		}

		lp, err := tensor.NewFilled(shape.Sources, shape.Receivers, shape.Bands, model.Sentinel)
		if err != nil {
			return out, err
		}
		for _, s := range c.Result.Sources() {
			is, ok := r.srcIdx.Lookup(s.Name)
			if !ok {
				return out, fmt.Errorf("extract: source %q of %q outside reconciliation", s.Name, c.Name)
			}
			for _, e := range c.Result.Receivers() {
				ir, ok := r.recIdx.Lookup(e.Name)
				if !ok {
					return out, fmt.Errorf("extract: receiver %q of %q outside reconciliation", e.Name, c.Name)
				}
				spec, ok := c.Result.Spectrum(e.Name, s.Name)
				if !ok {
					continue
				}
				if err := lp.SetCell(is, ir, spec[:]); err != nil {
					return out, err
				}
			}
		}

		out[slots[0]] = lp
		for _, p := range slots[1:] {
			out[p] = lp.Clone()
		}
	}
	return out, nil
}
