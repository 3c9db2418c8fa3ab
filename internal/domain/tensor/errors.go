package tensor

import (
	"fmt"

	"github.com/okian/lden/internal/domain/model"
)

// Sentinel errors of the tensor package. All of them are numeric domain
// errors for classification purposes.
var (
	// ErrBadShape is returned when a requested dimension is not positive.
	ErrBadShape = fmt.Errorf("tensor: invalid shape: %w", model.ErrNumericDomain)

	// ErrOutOfRange indicates an index outside the tensor bounds.
	ErrOutOfRange = fmt.Errorf("tensor: index out of range: %w", model.ErrNumericDomain)

	// ErrShapeMismatch indicates operands of different shapes.
	ErrShapeMismatch = fmt.Errorf("tensor: shape mismatch: %w", model.ErrNumericDomain)
)
