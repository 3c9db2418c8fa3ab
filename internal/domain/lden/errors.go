package lden

import (
	"fmt"

	"github.com/okian/lden/internal/domain/model"
)

// Sentinel kinds for the combiner.
var (
	// ErrShapeMismatch is returned when period tensors, or the duty matrix,
	// do not agree on the number of sources, receivers or bands. Inputs
	// built from one reconciliation never trigger it.
	ErrShapeMismatch = fmt.Errorf("lden: shape mismatch: %w", model.ErrNumericDomain)

	// ErrBadDuty is returned for a duty percentage that is NaN or infinite.
	ErrBadDuty = fmt.Errorf("lden: duty percentage is not finite: %w", model.ErrNumericDomain)

	// ErrMissingPeriod is returned when a period tensor is nil.
	ErrMissingPeriod = fmt.Errorf("lden: missing period levels: %w", model.ErrNumericDomain)
)
