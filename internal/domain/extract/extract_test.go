package extract_test

import (
	"errors"
	"testing"

	"github.com/okian/lden/internal/domain/extract"
	"github.com/okian/lden/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// computation builds a computation whose result holds every listed pair at
// the given level, except pairs listed in skip.
func computation(p *model.Project, name string, sources, receivers []string, level float64, skip ...[2]string) *model.Computation {
	c := p.AddComputation(name)
	for _, s := range sources {
		So(c.Result.AddSource(model.NewElement(s)), ShouldBeNil)
	}
	for _, r := range receivers {
		So(c.Result.AddReceiver(model.NewElement(r)), ShouldBeNil)
	}
	c.Result.BuildMatrix()
	for _, s := range sources {
	pairs:
		for _, r := range receivers {
			for _, k := range skip {
				if k[0] == s && k[1] == r {
					continue pairs
				}
			}
			So(c.Result.SetSpectrum(r, s, model.FilledSpectrum(level)), ShouldBeNil)
		}
	}
	return c
}

func cell(e *extract.Extraction, p model.Period, src, rec int) []float64 {
	c, err := e.Levels[p].Cell(src, rec)
	So(err, ShouldBeNil)
	return c
}

func TestExtractReconciliation(t *testing.T) {
	Convey("Given three computations with partially overlapping sources", t, func() {
		p := &model.Project{}
		computation(p, "Other", []string{"Z"}, []string{"R9"}, 99)
		computation(p, "Day", []string{"A", "B"}, []string{"R1"}, 60)
		computation(p, "Evening", []string{"B", "C"}, []string{"R1", "R2"}, 55, [2]string{"C", "R2"})
		computation(p, "Night", []string{"A", "C"}, []string{"R2"}, 50)

		Convey("When extracting with the default period names", func() {
			e, err := extract.Extract(p.Computations, model.DefaultPeriodNames())
			So(err, ShouldBeNil)

			Convey("Then sources and receivers should be the first-seen unions", func() {
				So(e.SourceNames(), ShouldResemble, []string{"A", "B", "C"})
				So(e.ReceiverNames(), ShouldResemble, []string{"R1", "R2"})
				So(len(e.Sources()), ShouldEqual, 3)
				So(e.Shape().Bands, ShouldEqual, model.NumBands)
			})

			Convey("Then every period tensor should share the reconciled shape", func() {
				for _, per := range model.Periods {
					So(e.Levels[per], ShouldNotBeNil)
					So(e.Levels[per].Shape(), ShouldResemble, e.Shape())
				}
			})

			Convey("Then present pairs should carry their spectra", func() {
				So(cell(e, model.Day, 0, 0)[0], ShouldEqual, 60.0)
				So(cell(e, model.Evening, 2, 0)[model.NumBands-1], ShouldEqual, 55.0)
				So(cell(e, model.Night, 2, 1)[3], ShouldEqual, 50.0)
			})

			Convey("Then absent pairs should read exactly -200", func() {
				So(cell(e, model.Day, 2, 0), ShouldResemble, model.FilledSpectrum(model.Sentinel).Values())
				So(cell(e, model.Day, 0, 1), ShouldResemble, model.FilledSpectrum(model.Sentinel).Values())
				So(cell(e, model.Evening, 0, 0)[0], ShouldEqual, model.Sentinel)
				So(cell(e, model.Evening, 2, 1)[0], ShouldEqual, model.Sentinel)
				So(cell(e, model.Night, 1, 1)[0], ShouldEqual, model.Sentinel)
			})
		})
	})

	Convey("Given a project missing one of the period computations", t, func() {
		p := &model.Project{}
		computation(p, "Day", []string{"A"}, []string{"R1"}, 60)
		computation(p, "Evening", []string{"A"}, []string{"R1"}, 60)

		Convey("When extracting", func() {
			_, err := extract.Extract(p.Computations, model.DefaultPeriodNames())

			Convey("Then it should name the missing computation", func() {
				So(errors.Is(err, extract.ErrComputationNotFound), ShouldBeTrue)
				So(errors.Is(err, model.ErrReconciliation), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `"Night"`)
			})
		})
	})

	Convey("Given period computations without any source", t, func() {
		p := &model.Project{}
		for _, n := range []string{"Day", "Evening", "Night"} {
			computation(p, n, nil, []string{"R1"}, 0)
		}

		Convey("Then reconciliation should fail", func() {
			_, err := extract.Reconcile(p.Computations, model.DefaultPeriodNames())
			So(errors.Is(err, extract.ErrEmptyReconciliation), ShouldBeTrue)
		})
	})
}

func TestExtractSlotAssignment(t *testing.T) {
	Convey("Given one computation used for both Day and Evening", t, func() {
		p := &model.Project{}
		computation(p, "DayEvening", []string{"A"}, []string{"R1"}, 70)
		computation(p, "Night", []string{"A"}, []string{"R1"}, 40)
		names := model.PeriodNames{"DayEvening", "DayEvening", "Night"}

		Convey("When extracting", func() {
			e, err := extract.Extract(p.Computations, names)
			So(err, ShouldBeNil)

			Convey("Then both periods should hold independent copies of its levels", func() {
				So(cell(e, model.Day, 0, 0)[0], ShouldEqual, 70.0)
				So(cell(e, model.Evening, 0, 0)[0], ShouldEqual, 70.0)
				So(e.Levels[model.Day], ShouldNotPointTo, e.Levels[model.Evening])
				So(e.Names(), ShouldResemble, names)
			})
		})
	})

	Convey("Given two computations sharing the Night name", t, func() {
		p := &model.Project{}
		computation(p, "Day", []string{"A"}, []string{"R1"}, 70)
		computation(p, "Evening", []string{"A"}, []string{"R1"}, 65)
		computation(p, "Night", []string{"A"}, []string{"R1"}, 40)
		computation(p, "Night", []string{"B"}, []string{"R1"}, 45)

		Convey("When extracting", func() {
			e, err := extract.Extract(p.Computations, model.DefaultPeriodNames())
			So(err, ShouldBeNil)

			Convey("Then both contribute to the union but the last one fills the Night slot", func() {
				So(e.SourceNames(), ShouldResemble, []string{"A", "B"})
				So(cell(e, model.Night, 0, 0)[0], ShouldEqual, model.Sentinel)
				So(cell(e, model.Night, 1, 0)[0], ShouldEqual, 45.0)
			})

			Convey("Then Selected reports the computation used per period", func() {
				sel := e.Selected(p.Computations)
				So(sel[model.Day], ShouldPointTo, p.Computations[0])
				So(sel[model.Evening], ShouldPointTo, p.Computations[1])
				So(sel[model.Night], ShouldPointTo, p.Computations[3])
			})
		})
	})
}
