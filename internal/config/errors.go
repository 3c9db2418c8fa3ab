package config

import (
	"fmt"

	"github.com/okian/lden/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = fmt.Errorf("invalid config: %w", model.ErrConfiguration)
	ErrLoadConfig    = fmt.Errorf("load config failed: %w", model.ErrConfiguration)
)
