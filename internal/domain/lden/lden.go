// Package lden combines duty-weighted Day, Evening and Night levels into the
// day-evening-night indicator and sums it over sources per receiver.
//
// All arithmetic is elementwise over [source, receiver, band] cells and is
// carried out in the power domain.
package lden

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/internal/domain/tensor"
)

// Period durations in hours and the penalties, in dB, applied to evening and
// night levels.
const (
	dayHours       = 12.0
	eveningHours   = 4.0
	nightHours     = 8.0
	hoursPerDay    = dayHours + eveningHours + nightHours
	eveningPenalty = 5.0
	nightPenalty   = 10.0
	percent        = 100.0
)

// Levels holds the duty-weighted period levels and the combined indicator.
// All four tensors share one shape.
type Levels struct {
	LD   *tensor.Dense
	LE   *tensor.Dense
	LN   *tensor.Dense
	LDEN *tensor.Dense
}

// Period returns the weighted levels of p.
func (l Levels) Period(p model.Period) *tensor.Dense {
	switch p {
	case model.Day:
		return l.LD
	case model.Evening:
		return l.LE
	case model.Night:
		return l.LN
	default:
		return nil
	}
}

// Combiner applies operating-duty weighting and the Lden formula. It holds
// no state between calls.
type Combiner struct {
	dutyFloor float64
}

// NewCombiner creates a Combiner with the given options.
func NewCombiner(opts ...Option) *Combiner {
	c := &Combiner{dutyFloor: DefaultDutyFloor}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Weight scales each source's levels by the fraction of the period it
// operates: 10·log10(10^(L/10) · duty/100), for every cell including
// model.Sentinel ones. duty holds one percentage per source; values <= 0
// are replaced by the duty floor and NaN or infinite values are rejected.
// level is not modified.
func (c *Combiner) Weight(level *tensor.Dense, duty []float64) (*tensor.Dense, error) {
	if level == nil {
		return nil, ErrMissingPeriod
	}
	shape := level.Shape()
	if len(duty) != shape.Sources {
		return nil, fmt.Errorf("%w: %d duty values for %d sources", ErrShapeMismatch, len(duty), shape.Sources)
	}
	for s, pct := range duty {
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return nil, fmt.Errorf("%w: source %d has %v", ErrBadDuty, s, pct)
		}
	}

	out := level.Clone()
	data := out.Raw()
	stride := shape.Receivers * shape.Bands
	for s, pct := range duty {
		fraction := c.Floor(pct) / percent
		for i := s * stride; i < (s+1)*stride; i++ {
			data[i] = toDB(fromDB(data[i]) * fraction)
		}
	}
	return out, nil
}

// Combine weights the three period tensors by the [sources x periods] duty
// matrix and combines them cell by cell:
//
//	Lden = 10·log10(12/24·10^(LD/10) + 4/24·10^((LE+5)/10) + 8/24·10^((LN+10)/10))
//
// A cell absent from all three inputs is model.Sentinel in the result.
func (c *Combiner) Combine(day, evening, night *tensor.Dense, duty mat.Matrix) (Levels, error) {
	inputs := [model.NumPeriods]*tensor.Dense{day, evening, night}
	for _, p := range model.Periods {
		if inputs[p] == nil {
			return Levels{}, fmt.Errorf("%w: %s", ErrMissingPeriod, p)
		}
		if !inputs[p].SameShape(day) {
			return Levels{}, fmt.Errorf("%w: %s is %s, Day is %s", ErrShapeMismatch, p, inputs[p].Shape(), day.Shape())
		}
	}
	if duty == nil {
		return Levels{}, fmt.Errorf("%w: no duty matrix", ErrShapeMismatch)
	}
	rows, cols := duty.Dims()
	if rows != day.Shape().Sources || cols != model.NumPeriods {
		return Levels{}, fmt.Errorf("%w: duty matrix is %dx%d for %d sources", ErrShapeMismatch, rows, cols, day.Shape().Sources)
	}

	var weighted [model.NumPeriods]*tensor.Dense
	for _, p := range model.Periods {
		w, err := c.Weight(inputs[p], mat.Col(nil, int(p), duty))
		if err != nil {
			return Levels{}, fmt.Errorf("%s: %w", p, err)
		}
		weighted[p] = w
	}

	out := day.Clone()
	res := out.Raw()
	rawD, rawE, rawN := day.Raw(), evening.Raw(), night.Raw()
	ld, le, ln := weighted[model.Day].Raw(), weighted[model.Evening].Raw(), weighted[model.Night].Raw()
	for i := range res {
		if model.IsAbsent(rawD[i]) && model.IsAbsent(rawE[i]) && model.IsAbsent(rawN[i]) {
			res[i] = model.Sentinel
			continue
		}
		res[i] = combine(ld[i], le[i], ln[i])
	}

	return Levels{
		LD:   weighted[model.Day],
		LE:   weighted[model.Evening],
		LN:   weighted[model.Night],
		LDEN: out,
	}, nil
}

func combine(ld, le, ln float64) float64 {
	return toDB(dayHours/hoursPerDay*fromDB(ld) +
		eveningHours/hoursPerDay*fromDB(le+eveningPenalty) +
		nightHours/hoursPerDay*fromDB(ln+nightPenalty))
}

// Totalize sums, for each receiver and band, the power of every source's
// contribution and returns one spectrum per receiver in receiver order.
// Cells holding exactly model.Sentinel are skipped; bands where every cell
// is skipped are model.Sentinel.
func Totalize(levels *tensor.Dense) ([]model.Spectrum, error) {
	if levels == nil {
		return nil, ErrMissingPeriod
	}
	shape := levels.Shape()
	if shape.Bands != model.NumBands {
		return nil, fmt.Errorf("%w: %d bands, want %d", ErrShapeMismatch, shape.Bands, model.NumBands)
	}

	totals := make([]model.Spectrum, shape.Receivers)
	power := make([]float64, shape.Bands)
	sum := make([]float64, shape.Bands)
	for r := range totals {
		for b := range sum {
			sum[b] = 0
		}
		present := make([]bool, shape.Bands)
		for s := 0; s < shape.Sources; s++ {
			cell, err := levels.Cell(s, r)
			if err != nil {
				return nil, err
			}
			for b, v := range cell {
				if v == model.Sentinel {
					power[b] = 0
					continue
				}
				power[b] = fromDB(v)
				present[b] = true
			}
			floats.Add(sum, power)
		}
		for b := range sum {
			if !present[b] {
				totals[r][b] = model.Sentinel
				continue
			}
			totals[r][b] = toDB(sum[b])
		}
	}
	return totals, nil
}

// Floor returns the duty percentage actually used for pct.
func (c *Combiner) Floor(pct float64) float64 {
	if pct <= 0 {
		return c.dutyFloor
	}
	return pct
}
