package service

import (
	"errors"

	"github.com/okian/lden/internal/domain/model"
)

// Error kinds reported in logs and metrics.
const (
	KindConfiguration  = "configuration"
	KindReconciliation = "reconciliation"
	KindNumericDomain  = "numeric"
	KindOther          = "other"
)

// ErrorKind classifies err by its domain category.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, model.ErrReconciliation):
		return KindReconciliation
	case errors.Is(err, model.ErrNumericDomain):
		return KindNumericDomain
	default:
		return KindOther
	}
}
