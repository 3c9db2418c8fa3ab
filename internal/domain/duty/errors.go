package duty

import (
	"errors"
	"fmt"

	"github.com/okian/lden/internal/domain/model"
)

// Sentinel kinds for operating-duty tables.
var (
	// ErrBadHeader is returned when the header is not exactly
	// Sources;Day;Evening;Night.
	ErrBadHeader = fmt.Errorf("duty: bad header, want %s: %w", headerLine(), model.ErrConfiguration)

	// ErrBadRow is returned for a row that does not have four fields.
	ErrBadRow = fmt.Errorf("duty: malformed row: %w", model.ErrConfiguration)

	// ErrUnknownSource is returned when a row names a source absent from
	// the reconciled source set, usually a stale table.
	ErrUnknownSource = fmt.Errorf("duty: source not in project: %w", model.ErrReconciliation)

	// ErrMissingSource is returned when a reconciled source has no row.
	ErrMissingSource = fmt.Errorf("duty: source has no row: %w", model.ErrReconciliation)

	// ErrDuplicateSource is returned when a source has more than one row.
	ErrDuplicateSource = fmt.Errorf("duty: source listed twice: %w", model.ErrReconciliation)

	// ErrNoSources is returned when a table is requested for no sources.
	ErrNoSources = fmt.Errorf("duty: empty source set: %w", model.ErrReconciliation)

	// ErrBadPercentage is returned for a value that is not a decimal in [0,100].
	ErrBadPercentage = fmt.Errorf("duty: percentage must be a decimal in [0,100]: %w", model.ErrNumericDomain)

	errExists = errors.New("duty: table already exists")
)
