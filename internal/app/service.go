// Package service runs one Lden aggregation: it loads a project, combines
// the Day, Evening and Night computations into a new computation and saves
// the augmented project.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/lden/internal/adapters/export"
	"github.com/okian/lden/internal/adapters/repository"
	"github.com/okian/lden/internal/domain/duty"
	"github.com/okian/lden/internal/domain/extract"
	"github.com/okian/lden/internal/domain/lden"
	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/internal/domain/tensor"
	"github.com/okian/lden/pkg/logger"
	"github.com/okian/lden/pkg/metrics"
)

// Phases of a run, as reported in metrics.
const (
	PhaseLoad        = "load"
	PhaseReconcile   = "reconcile"
	PhaseDuty        = "duty"
	PhaseExtract     = "extract"
	PhaseCombine     = "combine"
	PhaseMaterialize = "materialize"
	PhaseExport      = "export"
	PhaseSave        = "save"
)

// Service aggregates period computations into an Lden computation.
type Service struct {
	store    repository.Store
	combiner *lden.Combiner
	metrics  *metrics.Manager
	logger   logger.Logger

	periods     model.PeriodNames
	dutyFile    string
	outputFile  string
	resultName  string
	exportFile  string
	metricsFile string
}

// Report summarizes a successful run.
type Report struct {
	Project     string
	Selected    [model.NumPeriods]*model.Computation
	Sources     []string
	Receivers   []string
	DutyFile    string
	DutyCreated bool
	Result      *model.Computation
	OutputFile  string
	ExportFile  string
	Duration    time.Duration
}

// New constructs a Service with the conventional defaults.
func New(opts ...Option) *Service {
	s := &Service{
		store:      repository.NewFileStore(),
		combiner:   lden.NewCombiner(),
		metrics:    metrics.Default(),
		periods:    model.DefaultPeriodNames(),
		dutyFile:   "Default_Operating_Conditions.csv",
		outputFile: "LDEN_Included.xml",
		resultName: "LDEN",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("lden")
	}
	return s
}

// Run aggregates the project stored at projectPath. Nothing is written
// unless every step before the save succeeds.
func (s *Service) Run(ctx context.Context, projectPath string) (*Report, error) {
	start := time.Now()
	s.logger.Info(ctx, "starting lden run",
		logger.String("project", projectPath),
		logger.String("day", s.periods[model.Day]),
		logger.String("evening", s.periods[model.Evening]),
		logger.String("night", s.periods[model.Night]))

	report, err := s.run(ctx, projectPath)
	if err != nil {
		kind := ErrorKind(err)
		s.metrics.RecordRun(metrics.OutcomeFailure)
		s.metrics.RecordError(kind)
		s.logger.Error(ctx, "lden run failed", logger.String("kind", kind), logger.Error(err))
	} else {
		report.Duration = time.Since(start)
		s.metrics.RecordRun(metrics.OutcomeSuccess)
		s.logger.Info(ctx, "lden run finished",
			logger.String("output", report.OutputFile),
			logger.Duration("took", report.Duration))
	}

	if s.metricsFile != "" {
		if werr := s.metrics.WriteTextfile(s.metricsFile); werr != nil {
			s.logger.Warn(ctx, "metrics textfile not written", logger.String("file", s.metricsFile), logger.Error(werr))
		}
	}
	return report, err
}

func (s *Service) run(ctx context.Context, projectPath string) (*Report, error) {
	r := &Report{DutyFile: s.dutyFile, OutputFile: s.outputFile, ExportFile: s.exportFile}

	var project *model.Project
	if err := s.phase(PhaseLoad, func() (err error) {
		project, err = s.store.Load(ctx, projectPath)
		return err
	}); err != nil {
		return nil, err
	}
	r.Project = project.Name
	s.logger.Debug(ctx, "project loaded",
		logger.String("name", project.Name),
		logger.Strings("computations", project.ComputationNames()))

	var rec *extract.Reconciliation
	if err := s.phase(PhaseReconcile, func() (err error) {
		rec, err = extract.Reconcile(project.Computations, s.periods)
		return err
	}); err != nil {
		return nil, err
	}
	r.Selected = rec.Selected(project.Computations)
	r.Sources = rec.SourceNames()
	r.Receivers = rec.ReceiverNames()
	for _, p := range model.Periods {
		s.logger.Info(ctx, "period computation selected",
			logger.String("period", p.String()),
			logger.String("computation", r.Selected[p].Name),
			logger.String("id", r.Selected[p].ID.String()))
	}
	s.metrics.SetReconciled(len(r.Sources), len(r.Receivers))
	s.logger.Info(ctx, "sources and receivers reconciled",
		logger.Int("sources", len(r.Sources)),
		logger.Int("receivers", len(r.Receivers)))

	var table *duty.Table
	if err := s.phase(PhaseDuty, func() (err error) {
		table, err = duty.LoadOrDefault(ctx, s.dutyFile, r.Sources)
		return err
	}); err != nil {
		return nil, err
	}
	r.DutyCreated = table.Created()
	if r.DutyCreated {
		s.logger.Info(ctx, "operating conditions file created with 100% duty", logger.String("file", s.dutyFile))
	} else {
		s.logger.Info(ctx, "operating conditions loaded", logger.String("file", s.dutyFile))
	}

	var levels [model.NumPeriods]*tensor.Dense
	if err := s.phase(PhaseExtract, func() (err error) {
		levels, err = rec.Tensors(project.Computations)
		return err
	}); err != nil {
		return nil, err
	}

	var combined lden.Levels
	var totals []model.Spectrum
	if err := s.phase(PhaseCombine, func() (err error) {
		combined, err = s.combiner.Combine(levels[model.Day], levels[model.Evening], levels[model.Night], table.Percentages())
		if err != nil {
			return err
		}
		totals, err = lden.Totalize(combined.LDEN)
		return err
	}); err != nil {
		return nil, err
	}
	s.metrics.AddCellsCombined(len(combined.LDEN.Raw()))

	if err := s.phase(PhaseMaterialize, func() (err error) {
		r.Result, err = materialize(project, s.resultName, rec, combined.LDEN, totals)
		return err
	}); err != nil {
		return nil, err
	}

	if s.exportFile != "" {
		if err := s.phase(PhaseExport, func() error {
			return export.WriteFile(ctx, s.exportFile, export.Totals(r.Result.Result))
		}); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "receiver totals exported", logger.String("file", s.exportFile))
	}

	if err := s.phase(PhaseSave, func() error {
		return s.store.Save(ctx, project, s.outputFile)
	}); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "project written",
		logger.String("file", s.outputFile),
		logger.String("computation", r.Result.Name))
	return r, nil
}

func (s *Service) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObservePhase(name, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// materialize appends a computation named name holding the Lden spectrum of
// every reconciled (receiver, source) pair and the receiver totals.
func materialize(p *model.Project, name string, rec *extract.Reconciliation, levels *tensor.Dense, totals []model.Spectrum) (*model.Computation, error) {
	sources := rec.Sources()
	receivers := rec.Receivers()
	if len(totals) != len(receivers) {
		return nil, fmt.Errorf("%w: %d totals for %d receivers", lden.ErrShapeMismatch, len(totals), len(receivers))
	}

	c := p.AddComputation(name)
	res := c.Result
	for _, src := range sources {
		if err := res.AddSource(src); err != nil {
			return nil, err
		}
	}
	for _, rcv := range receivers {
		if err := res.AddReceiver(rcv); err != nil {
			return nil, err
		}
	}
	res.BuildMatrix()

	for ir, rcv := range receivers {
		for is, src := range sources {
			cell, err := levels.Cell(is, ir)
			if err != nil {
				return nil, err
			}
			spec, err := model.NewSpectrum(cell)
			if err != nil {
				return nil, err
			}
			if err := res.SetSpectrum(rcv.Name, src.Name, spec); err != nil {
				return nil, err
			}
		}
		if err := res.SetTotal(rcv.Name, totals[ir]); err != nil {
			return nil, err
		}
	}
	res.DisableLw()
	return c, nil
}
