// Package duty reads and creates operating-duty tables: for each source, the
// percentage of the Day, Evening and Night periods during which it operates.
//
// A table is a ';' separated text file:
//
//	Sources;Day;Evening;Night
//	pump;100;50;0
//
// Decimals use a point.
package duty

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/lden/internal/domain/index"
	"github.com/okian/lden/internal/domain/model"
)

// Delimiter separates the columns of a table.
const Delimiter = ';'

const (
	defaultPercent = 100
	maxPercent     = 100.0
	filePermission = 0o644
	utf8BOM        = "\ufeff"
)

// Header is the exact column header of a table.
var Header = []string{"Sources", "Day", "Evening", "Night"}

func headerLine() string {
	return strings.Join(Header, string(Delimiter))
}

// Table holds duty percentages for an ordered set of sources.
type Table struct {
	sources []string
	pct     *mat.Dense // [len(sources) x NumPeriods]
	created bool
}

// Sources returns the source names in table row order.
func (t *Table) Sources() []string {
	out := make([]string, len(t.sources))
	copy(out, t.sources)
	return out
}

// Percentages returns a copy of the [sources x periods] percentage matrix.
func (t *Table) Percentages() *mat.Dense {
	return mat.DenseCopyOf(t.pct)
}

// Column returns the percentages of period p, one per source.
func (t *Table) Column(p model.Period) []float64 {
	return mat.Col(nil, int(p), t.pct)
}

// Created reports whether LoadOrDefault had to create the file.
func (t *Table) Created() bool { return t.created }

// LoadOrDefault reads the table at path for sources. When no file exists a
// table with every source at 100% in every period is written first. An
// existing file is never overwritten.
//
// The returned table follows the order of sources, whatever the row order
// in the file.
func LoadOrDefault(ctx context.Context, path string, sources []string) (*Table, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	created := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		switch err := Create(ctx, path, sources); {
		case err == nil:
			created = true
		case errors.Is(err, errExists):
			// lost a race with another writer; read what it wrote
		default:
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("duty: stat %s: %w", path, err)
	}

	t, err := Load(ctx, path, sources)
	if err != nil {
		return nil, err
	}
	t.created = created
	return t, nil
}

// Create writes a default table for sources at path. It fails if the file
// already exists.
func Create(_ context.Context, path string, sources []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermission)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", errExists, path)
		}
		return fmt.Errorf("duty: create %s: %w", path, err)
	}

	if err := Write(f, defaultRows(sources)); err != nil {
		_ = f.Close()
		return fmt.Errorf("duty: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("duty: close %s: %w", path, err)
	}
	return nil
}

// Load reads the table at path and validates it against sources.
func Load(_ context.Context, path string, sources []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("duty: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f, sources)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Row is one source line of a table.
type Row struct {
	Source  string
	Percent [model.NumPeriods]float64
}

func defaultRows(sources []string) []Row {
	rows := make([]Row, len(sources))
	for i, s := range sources {
		rows[i] = Row{Source: s, Percent: [model.NumPeriods]float64{defaultPercent, defaultPercent, defaultPercent}}
	}
	return rows
}

// Write renders rows, preceded by the header.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Source}
		for _, p := range r.Percent {
			rec = append(rec, strconv.FormatFloat(p, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Parse reads a table from r. Every row must name one of sources, and every
// source must have exactly one row. Source names are checked for every row
// before any value is parsed.
func Parse(r io.Reader, sources []string) (*Table, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrBadHeader)
		}
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if !validHeader(header) {
		return nil, fmt.Errorf("%w: got %q", ErrBadHeader, strings.Join(header, string(Delimiter)))
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRow, err)
	}

	known := index.NewOrdered(index.WithNames(sources...))
	for i, rec := range records {
		if len(rec) != len(Header) {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrBadRow, i+2, len(rec))
		}
		if _, ok := known.Lookup(rec[0]); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, rec[0])
		}
	}

	pct := mat.NewDense(known.Len(), model.NumPeriods, nil)
	listed := index.NewOrdered(index.WithCapacity(len(records)))
	for i, rec := range records {
		if _, seen := listed.SeenAndRecord(rec[0]); seen {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSource, rec[0])
		}
		row, _ := known.Lookup(rec[0])
		for _, p := range model.Periods {
			v, err := parsePercent(rec[1+int(p)])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, source %q, %s: %w", ErrBadPercentage, i+2, rec[0], p, err)
			}
			pct.Set(row, int(p), v)
		}
	}

	if listed.Len() != known.Len() {
		for _, s := range known.Names() {
			if _, ok := listed.Lookup(s); !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingSource, s)
			}
		}
	}

	return &Table{sources: known.Names(), pct: pct}, nil
}

func validHeader(header []string) bool {
	if len(header) != len(Header) {
		return false
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if h != Header[i] {
			return false
		}
	}
	return true
}

func parsePercent(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < 0 || v > maxPercent {
		return 0, fmt.Errorf("%v out of range", v)
	}
	return v, nil
}
