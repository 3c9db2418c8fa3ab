package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"site": "north"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordRun(OutcomeSuccess)

			Convey("Then metrics should use them", func() {
				So(manager.Registry(), ShouldEqual, registry)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_runs_total")
			})
		})

		Convey("When two managers are created", func() {
			Convey("Then they should not collide", func() {
				So(func() { NewManager(); NewManager() }, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager()

		Convey("When recording a run", func() {
			m.RecordRun(OutcomeSuccess)
			m.RecordRun(OutcomeFailure)
			m.RecordRun(OutcomeFailure)
			m.RecordError("reconciliation")
			m.SetReconciled(3, 2)
			m.AddCellsCombined(3 * 2 * 31)
			m.AddCellsCombined(-5)
			m.ObservePhase("combine", 12*time.Millisecond)

			Convey("Then the values should be visible", func() {
				text := exposition(t, m)
				So(text, ShouldContainSubstring, `lden_run_runs_total{outcome="success"} 1`)
				So(text, ShouldContainSubstring, `lden_run_runs_total{outcome="failure"} 2`)
				So(text, ShouldContainSubstring, `lden_run_errors_total{kind="reconciliation"} 1`)
				So(text, ShouldContainSubstring, "lden_run_sources_reconciled 3")
				So(text, ShouldContainSubstring, "lden_run_receivers_reconciled 2")
				So(text, ShouldContainSubstring, "lden_run_cells_combined_total 186")
				So(text, ShouldContainSubstring, `lden_run_phase_duration_milliseconds_count{phase="combine"} 1`)
				So(text, ShouldContainSubstring, `lden_run_phase_duration_milliseconds_bucket{phase="combine",le="25"} 1`)
			})
		})
	})
}

func exposition(t *testing.T, m *Manager) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	return string(data)
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with one run recorded", t, func() {
		m := NewManager()
		m.RecordRun(OutcomeSuccess)
		dir := t.TempDir()

		Convey("When writing the textfile", func() {
			path := filepath.Join(dir, "lden.prom")
			err := m.WriteTextfile(path)

			Convey("Then it should hold the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `lden_run_runs_total{outcome="success"} 1`)
			})
		})

		Convey("When the path is empty or unwritable", func() {
			So(errors.Is(m.WriteTextfile(""), ErrWriteTextfile), ShouldBeTrue)
			So(errors.Is(m.WriteTextfile(filepath.Join(dir, "missing", "lden.prom")), ErrWriteTextfile), ShouldBeTrue)
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Default should return the same manager", t, func() {
		So(Default(), ShouldEqual, Default())
	})
}
