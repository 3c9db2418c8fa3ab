package service

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/lden/internal/adapters/repository"
	"github.com/okian/lden/internal/config"
	"github.com/okian/lden/internal/domain/duty"
	"github.com/okian/lden/internal/domain/extract"
	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/internal/fixture"
	"github.com/okian/lden/pkg/metrics"
)

type workspace struct {
	dir     string
	project string
	duty    string
	output  string
	export  string
	metrics string
}

func newWorkspace(t *testing.T, p *model.Project) workspace {
	t.Helper()
	dir := t.TempDir()
	w := workspace{
		dir:     dir,
		project: filepath.Join(dir, "site.xml"),
		duty:    filepath.Join(dir, "duty.csv"),
		output:  filepath.Join(dir, "out.xml"),
		export:  filepath.Join(dir, "totals.csv"),
		metrics: filepath.Join(dir, "lden.prom"),
	}
	if err := repository.NewFileStore().Save(context.Background(), p, w.project); err != nil {
		t.Fatalf("save project: %v", err)
	}
	return w
}

func (w workspace) service(opts ...Option) *Service {
	base := []Option{
		WithOperatingConditionsFile(w.duty),
		WithOutputFile(w.output),
		WithExportFile(w.export),
		WithMetricsFile(w.metrics),
		WithMetrics(metrics.NewManager()),
	}
	return New(append(base, opts...)...)
}

func ldenOf(d, e, n float64) float64 {
	return 10 * math.Log10(12.0/24.0*math.Pow(10, d/10)+4.0/24.0*math.Pow(10, (e+5)/10)+8.0/24.0*math.Pow(10, (n+10)/10))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestServiceRun(t *testing.T) {
	Convey("Given a generated project with an unrelated computation", t, func() {
		ctx := context.Background()
		cfg := fixture.DefaultConfig()
		cfg.Extra = []string{"Other"}
		p, err := fixture.Generate(ctx, cfg)
		So(err, ShouldBeNil)
		w := newWorkspace(t, p)

		Convey("When running without an operating conditions file", func() {
			report, err := w.service().Run(ctx, w.project)
			So(err, ShouldBeNil)

			Convey("Then the duty file is created with 100% rows", func() {
				So(report.DutyCreated, ShouldBeTrue)
				data, err := os.ReadFile(w.duty)
				So(err, ShouldBeNil)
				So(string(data), ShouldStartWith, "Sources;Day;Evening;Night\nS01;100;100;100\n")
			})

			Convey("Then the report names the selected computations", func() {
				So(report.Project, ShouldEqual, cfg.Name)
				So(report.Selected[model.Day].Name, ShouldEqual, "Day")
				So(report.Selected[model.Night].Name, ShouldEqual, "Night")
				So(report.Sources, ShouldResemble, []string{"S01", "S02", "S03", "S04"})
				So(report.Receivers, ShouldResemble, []string{"R01", "R02", "R03"})
				So(report.Duration > 0, ShouldBeTrue)
			})

			Convey("Then the output holds the Lden computation", func() {
				out, err := repository.NewFileStore().Load(ctx, w.output)
				So(err, ShouldBeNil)
				So(out.ComputationNames(), ShouldResemble, []string{"Other", "Day", "Evening", "Night", "LDEN"})

				res := out.Computations[4].Result
				So(res.UseLw(), ShouldBeFalse)
				So(len(res.Sources()), ShouldEqual, 4)

				day, _ := p.Computations[1].Result.Spectrum("R02", "S03")
				eve, _ := p.Computations[2].Result.Spectrum("R02", "S03")
				night, _ := p.Computations[3].Result.Spectrum("R02", "S03")
				got, ok := res.Spectrum("R02", "S03")
				So(ok, ShouldBeTrue)
				for b := range got {
					So(got[b], ShouldAlmostEqual, ldenOf(day[b], eve[b], night[b]), 1e-9)
				}

				total, ok := res.Total("R02")
				So(ok, ShouldBeTrue)
				var power float64
				for _, s := range res.Sources() {
					sp, _ := res.Spectrum("R02", s.Name)
					power += math.Pow(10, sp[10]/10)
				}
				So(total[10], ShouldAlmostEqual, 10*math.Log10(power), 1e-9)
			})

			Convey("Then the input project is untouched", func() {
				in, err := repository.NewFileStore().Load(ctx, w.project)
				So(err, ShouldBeNil)
				So(len(in.Computations), ShouldEqual, 4)
			})

			Convey("Then totals and metrics are exported", func() {
				data, err := os.ReadFile(w.export)
				So(err, ShouldBeNil)
				So(string(data), ShouldStartWith, "Frequency,R01,R02,R03\n")

				prom, err := os.ReadFile(w.metrics)
				So(err, ShouldBeNil)
				So(string(prom), ShouldContainSubstring, `lden_run_runs_total{outcome="success"} 1`)
				So(string(prom), ShouldContainSubstring, "lden_run_cells_combined_total 372")
			})
		})

		Convey("When a source is switched off at night", func() {
			So(os.WriteFile(w.duty, []byte("Sources;Day;Evening;Night\nS04;100;100;100\nS01;100;100;0\nS02;100;100;100\nS03;100;100;100\n"), 0o644), ShouldBeNil)

			report, err := w.service().Run(ctx, w.project)
			So(err, ShouldBeNil)

			Convey("Then the existing file is used and the night term vanishes", func() {
				So(report.DutyCreated, ShouldBeFalse)
				day, _ := p.Computations[1].Result.Spectrum("R01", "S01")
				eve, _ := p.Computations[2].Result.Spectrum("R01", "S01")
				got, _ := report.Result.Result.Spectrum("R01", "S01")
				So(got[5], ShouldAlmostEqual, ldenOf(day[5], eve[5], -1000), 1e-9)
			})
		})

		Convey("When the periods have custom names", func() {
			_, err := w.service(WithPeriodNames(model.PeriodNames{"Day", "Evening", "Nuit"})).Run(ctx, w.project)

			Convey("Then the run fails with a reconciliation error and writes nothing", func() {
				So(errors.Is(err, extract.ErrComputationNotFound), ShouldBeTrue)
				So(ErrorKind(err), ShouldEqual, KindReconciliation)
				So(strings.Contains(err.Error(), "Nuit"), ShouldBeTrue)
				So(exists(w.output), ShouldBeFalse)
				So(exists(w.duty), ShouldBeFalse)
				So(exists(w.export), ShouldBeFalse)

				prom, _ := os.ReadFile(w.metrics)
				So(string(prom), ShouldContainSubstring, `lden_run_errors_total{kind="reconciliation"} 1`)
			})
		})

		Convey("When the duty file names an unknown source", func() {
			So(os.WriteFile(w.duty, []byte("Sources;Day;Evening;Night\nS01;100;100;100\nS02;100;100;100\nS03;100;100;100\nS04;100;100;100\nS99;1;1;1\n"), 0o644), ShouldBeNil)
			_, err := w.service().Run(ctx, w.project)

			Convey("Then nothing is written", func() {
				So(errors.Is(err, duty.ErrUnknownSource), ShouldBeTrue)
				So(ErrorKind(err), ShouldEqual, KindReconciliation)
				So(exists(w.output), ShouldBeFalse)
			})
		})

		Convey("When the duty file has the wrong header", func() {
			So(os.WriteFile(w.duty, []byte("Name;D;E;N\n"), 0o644), ShouldBeNil)
			_, err := w.service().Run(ctx, w.project)
			So(ErrorKind(err), ShouldEqual, KindConfiguration)
			So(exists(w.output), ShouldBeFalse)
		})

		Convey("When the project file does not exist", func() {
			_, err := w.service().Run(ctx, filepath.Join(w.dir, "absent.xml"))
			So(ErrorKind(err), ShouldEqual, KindConfiguration)
		})

		Convey("When options come from a config", func() {
			c := config.New(ctx)
			c.OperatingConditionsFile = w.duty
			c.OutputFile = filepath.Join(w.dir, "cfg.yaml")
			c.ResultName = "Lden"
			c.ExportFile = ""
			c.MetricsFile = ""

			report, err := New(append(FromConfig(c), WithMetrics(metrics.NewManager()))...).Run(ctx, w.project)
			So(err, ShouldBeNil)
			So(report.Result.Name, ShouldEqual, "Lden")
			So(exists(c.OutputFile), ShouldBeTrue)
			So(exists(w.export), ShouldBeFalse)
		})
	})
}

func TestServiceSilence(t *testing.T) {
	Convey("Given a receiver no period computation reaches", t, func() {
		ctx := context.Background()
		p := &model.Project{Name: "silence"}
		for _, name := range []string{"Day", "Evening", "Night"} {
			c := p.AddComputation(name)
			So(c.Result.AddSource(model.NewElement("S1")), ShouldBeNil)
			So(c.Result.AddReceiver(model.NewElement("R1")), ShouldBeNil)
			So(c.Result.AddReceiver(model.NewElement("R2")), ShouldBeNil)
			c.Result.BuildMatrix()
			So(c.Result.SetSpectrum("R1", "S1", model.FilledSpectrum(50)), ShouldBeNil)
		}
		w := newWorkspace(t, p)

		report, err := w.service().Run(ctx, w.project)
		So(err, ShouldBeNil)

		Convey("Then its Lden cells and total are exactly the sentinel", func() {
			res := report.Result.Result
			s, ok := res.Spectrum("R2", "S1")
			So(ok, ShouldBeTrue)
			So(s, ShouldResemble, model.FilledSpectrum(model.Sentinel))
			total, _ := res.Total("R2")
			So(total, ShouldResemble, model.FilledSpectrum(model.Sentinel))

			reached, _ := res.Spectrum("R1", "S1")
			So(reached[0], ShouldAlmostEqual, ldenOf(50, 50, 50), 1e-9)
		})
	})
}

func TestErrorKind(t *testing.T) {
	Convey("ErrorKind should classify by category", t, func() {
		So(ErrorKind(duty.ErrBadHeader), ShouldEqual, KindConfiguration)
		So(ErrorKind(extract.ErrEmptyReconciliation), ShouldEqual, KindReconciliation)
		So(ErrorKind(duty.ErrBadPercentage), ShouldEqual, KindNumericDomain)
		So(ErrorKind(errors.New("disk on fire")), ShouldEqual, KindOther)
	})
}
