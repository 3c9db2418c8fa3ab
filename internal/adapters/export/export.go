// Package export writes receiver spectra as a third-octave table: one row
// per band, a frequency column, then one column per receiver sorted by name.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/okian/lden/internal/domain/model"
)

// FrequencyHeader heads the band column.
const FrequencyHeader = "Frequency"

// ErrWrite is returned when the table cannot be written.
var ErrWrite = errors.New("export: write failed")

// Column is one named spectrum of the table.
type Column struct {
	Name     string
	Spectrum model.Spectrum
}

// Totals returns the receiver totals stored on r, sorted by receiver name.
// Receivers without a total are skipped.
func Totals(r *model.Result) []Column {
	var cols []Column
	for _, rec := range r.Receivers() {
		if s, ok := r.Total(rec.Name); ok {
			cols = append(cols, Column{Name: rec.Name, Spectrum: s})
		}
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols
}

// WriteTable writes cols in the order given.
func WriteTable(w io.Writer, cols []Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(cols)+1)
	header = append(header, FrequencyHeader)
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	row := make([]string, len(cols)+1)
	for b, f := range model.Frequencies {
		row[0] = strconv.FormatFloat(f, 'g', -1, 64)
		for i, c := range cols {
			row[i+1] = strconv.FormatFloat(c.Spectrum[b], 'f', 2, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFile writes the table to path, replacing any existing file.
func WriteFile(ctx context.Context, path string, cols []Column) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()
	return WriteTable(f, cols)
}
