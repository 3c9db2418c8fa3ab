// Package config defines the run configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/lden/internal/domain/lden"
	"github.com/okian/lden/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Day, Evening and Night name the computations taken for each period.
	Day     string `koanf:"day"`
	Evening string `koanf:"evening"`
	Night   string `koanf:"night"`

	// OperatingConditionsFile is the duty table, created with 100% rows
	// when absent.
	OperatingConditionsFile string `koanf:"operating_conditions_file"`

	// OutputFile receives the project with the Lden computation appended.
	OutputFile string `koanf:"output_file"`

	// ResultName names the appended computation.
	ResultName string `koanf:"result_name"`

	// ExportFile, when set, receives the receiver totals as a third-octave table.
	ExportFile string `koanf:"export_file"`

	// MetricsFile, when set, receives the run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`

	// DutyFloor replaces duty percentages <= 0.
	DutyFloor float64 `koanf:"duty_floor"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	names := model.DefaultPeriodNames()
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Day:                     names[model.Day],
		Evening:                 names[model.Evening],
		Night:                   names[model.Night],
		OperatingConditionsFile: "Default_Operating_Conditions.csv",
		OutputFile:              "LDEN_Included.xml",
		ResultName:              "LDEN",
		DutyFloor:               lden.DefaultDutyFloor,
	}
}

// PeriodNames returns the computation names in Day, Evening, Night order.
func (c *Config) PeriodNames() model.PeriodNames {
	return model.PeriodNames{c.Day, c.Evening, c.Night}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	for _, p := range model.Periods {
		if strings.TrimSpace(c.PeriodNames()[p]) == "" {
			return fmt.Errorf("%w: %s computation name must not be empty", ErrInvalidConfig, strings.ToLower(p.String()))
		}
	}
	switch {
	case c.OperatingConditionsFile == "":
		return fmt.Errorf("%w: operating_conditions_file must not be empty", ErrInvalidConfig)
	case c.OutputFile == "":
		return fmt.Errorf("%w: output_file must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ResultName) == "":
		return fmt.Errorf("%w: result_name must not be empty", ErrInvalidConfig)
	case !(c.DutyFloor > 0):
		return fmt.Errorf("%w: duty_floor must be positive, got %g", ErrInvalidConfig, c.DutyFloor)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
