package fixture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/lden/internal/domain/model"
)

// Default generator settings.
const (
	defaultSources   = 4
	defaultReceivers = 3
	defaultBaseLevel = 95.0
	defaultSeed      = 1
)

// ErrInvalidConfig is returned for settings the generator cannot use.
var ErrInvalidConfig = errors.New("fixture: invalid config")

// Config holds the generator settings.
type Config struct {
	Name      string            // project name
	Sources   int               // number of sources, named S01, S02, ...
	Receivers int               // number of receivers, named R01, R02, ...
	Periods   model.PeriodNames // computation names for Day, Evening, Night
	Extra     []string          // unrelated computations added before the periods
	Coverage  float64           // probability that a (source, receiver) pair is solved
	BaseLevel float64           // source power level in dB
	Seed      uint64            // same seed, same project
}

// DefaultConfig returns a small fully covered project.
func DefaultConfig() Config {
	return Config{
		Name:      "Synthetic site",
		Sources:   defaultSources,
		Receivers: defaultReceivers,
		Periods:   model.DefaultPeriodNames(),
		Coverage:  1,
		BaseLevel: defaultBaseLevel,
		Seed:      defaultSeed,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Sources <= 0:
		return fmt.Errorf("%w: sources must be positive, got %d", ErrInvalidConfig, c.Sources)
	case c.Receivers <= 0:
		return fmt.Errorf("%w: receivers must be positive, got %d", ErrInvalidConfig, c.Receivers)
	case !(c.Coverage > 0 && c.Coverage <= 1):
		return fmt.Errorf("%w: coverage must be in (0, 1], got %g", ErrInvalidConfig, c.Coverage)
	}
	for _, p := range model.Periods {
		if strings.TrimSpace(c.Periods[p]) == "" {
			return fmt.Errorf("%w: %s computation name must not be empty", ErrInvalidConfig, p)
		}
	}
	return nil
}
