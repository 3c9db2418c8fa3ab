package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Spectrum holds one value per third-octave band, in band order.
type Spectrum [NumBands]float64

// NewSpectrum copies values into a Spectrum. It fails with ErrBadSpectrum
// unless exactly NumBands values are given.
func NewSpectrum(values []float64) (Spectrum, error) {
	var s Spectrum
	if len(values) != NumBands {
		return s, fmt.Errorf("%w: got %d values", ErrBadSpectrum, len(values))
	}
	copy(s[:], values)
	return s, nil
}

// FilledSpectrum returns a Spectrum with every band set to v.
func FilledSpectrum(v float64) Spectrum {
	var s Spectrum
	for i := range s {
		s[i] = v
	}
	return s
}

// Values returns the bands as a slice backed by a copy.
func (s Spectrum) Values() []float64 {
	out := make([]float64, NumBands)
	copy(out, s[:])
	return out
}

// MarshalText renders the bands as space separated decimals. The shortest
// representation that round-trips is used so a save/load cycle is exact.
func (s Spectrum) MarshalText() ([]byte, error) {
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return []byte(b.String()), nil
}

// UnmarshalText parses the format written by MarshalText.
func (s *Spectrum) UnmarshalText(text []byte) error {
	fields := strings.Fields(string(text))
	if len(fields) != NumBands {
		return fmt.Errorf("%w: got %d values", ErrBadSpectrum, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("%w: band %d: %w", ErrBadSpectrum, i, err)
		}
		s[i] = v
	}
	return nil
}
