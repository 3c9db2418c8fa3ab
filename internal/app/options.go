package service

import (
	"github.com/okian/lden/internal/adapters/repository"
	"github.com/okian/lden/internal/config"
	"github.com/okian/lden/internal/domain/lden"
	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/pkg/logger"
	"github.com/okian/lden/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the project store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithPeriodNames sets the computation names taken for Day, Evening and Night.
func WithPeriodNames(names model.PeriodNames) Option {
	return func(s *Service) {
		s.periods = names
	}
}

// WithDutyFloor sets the value substituted for duty percentages <= 0.
func WithDutyFloor(floor float64) Option {
	return func(s *Service) {
		s.combiner = lden.NewCombiner(lden.WithDutyFloor(floor))
	}
}

// WithOperatingConditionsFile sets the duty table path.
func WithOperatingConditionsFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dutyFile = path
		}
	}
}

// WithOutputFile sets where the augmented project is written.
func WithOutputFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.outputFile = path
		}
	}
}

// WithResultName sets the name of the appended computation.
func WithResultName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.resultName = name
		}
	}
}

// WithExportFile enables the third-octave export of receiver totals.
func WithExportFile(path string) Option {
	return func(s *Service) {
		s.exportFile = path
	}
}

// WithMetricsFile enables writing run metrics to a textfile.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// FromConfig maps a loaded configuration onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithPeriodNames(cfg.PeriodNames()),
		WithDutyFloor(cfg.DutyFloor),
		WithOperatingConditionsFile(cfg.OperatingConditionsFile),
		WithOutputFile(cfg.OutputFile),
		WithResultName(cfg.ResultName),
		WithExportFile(cfg.ExportFile),
		WithMetricsFile(cfg.MetricsFile),
	}
}
