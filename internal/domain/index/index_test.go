package index

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOrderedIndex(t *testing.T) {
	Convey("Given an empty index", t, func() {
		idx := NewOrdered(WithCapacity(4))

		Convey("When names are recorded with repeats", func() {
			results := make([]int, 0)
			seenFlags := make([]bool, 0)
			for _, n := range []string{"A", "B", "A", "C", "B"} {
				p, seen := idx.SeenAndRecord(n)
				results = append(results, p)
				seenFlags = append(seenFlags, seen)
			}

			Convey("Then positions should follow first-seen order", func() {
				So(results, ShouldResemble, []int{0, 1, 0, 2, 1})
				So(seenFlags, ShouldResemble, []bool{false, false, true, false, true})
				So(idx.Names(), ShouldResemble, []string{"A", "B", "C"})
				So(idx.Len(), ShouldEqual, 3)
			})

			Convey("And lookups should not record new names", func() {
				p, ok := idx.Lookup("C")
				So(ok, ShouldBeTrue)
				So(p, ShouldEqual, 2)

				_, ok = idx.Lookup("D")
				So(ok, ShouldBeFalse)
				So(idx.Len(), ShouldEqual, 3)
			})

			Convey("And Names should return a copy", func() {
				names := idx.Names()
				names[0] = "Z"
				So(idx.Names()[0], ShouldEqual, "A")
			})
		})
	})

	Convey("Given an index seeded with names", t, func() {
		idx := NewOrdered(WithNames("x", "y", "x"))

		Convey("Then duplicates should keep their first position", func() {
			So(idx.Names(), ShouldResemble, []string{"x", "y"})
			p, seen := idx.SeenAndRecord("y")
			So(seen, ShouldBeTrue)
			So(p, ShouldEqual, 1)
		})
	})
}
