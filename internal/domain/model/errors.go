package model

import "errors"

// Error categories shared by every domain package. Package-level sentinels
// wrap one of these so callers can classify a failure with errors.Is.
var (
	// ErrConfiguration marks malformed user-supplied inputs such as a duty
	// table with the wrong header.
	ErrConfiguration = errors.New("configuration error")

	// ErrReconciliation marks identity mismatches between the selected
	// computations and the other inputs of a run.
	ErrReconciliation = errors.New("reconciliation error")

	// ErrNumericDomain marks values or shapes the numeric core cannot accept.
	ErrNumericDomain = errors.New("numeric domain error")
)

// Sentinel kinds for the project data model.
var (
	ErrBadSpectrum      = errors.New("spectrum must hold exactly 31 bands")
	ErrDuplicateElement = errors.New("element registered twice")
	ErrUnknownElement   = errors.New("element not registered on result")
	ErrMatrixNotBuilt   = errors.New("result matrix not built")
)
