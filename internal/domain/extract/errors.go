package extract

import (
	"fmt"

	"github.com/okian/lden/internal/domain/model"
)

// Sentinel kinds for period extraction.
var (
	// ErrComputationNotFound is returned when a period names a computation
	// that the project does not contain.
	ErrComputationNotFound = fmt.Errorf("extract: computation not found: %w", model.ErrReconciliation)

	// ErrEmptyReconciliation is returned when the selected computations
	// have no source or no receiver at all.
	ErrEmptyReconciliation = fmt.Errorf("extract: no sources or receivers in selected computations: %w", model.ErrReconciliation)

	// ErrNilResult is returned for a selected computation without a result.
	ErrNilResult = fmt.Errorf("extract: computation has no result: %w", model.ErrReconciliation)
)
