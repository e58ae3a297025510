package service

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFinalize(t *testing.T) {
	Convey("Finalize", t, func() {
		Convey("keeps every line when ten or fewer rows failed", func() {
			report := Finalize(5, 3, 2, []string{"Row 2: a", "Row 4: b"})
			So(report.Total, ShouldEqual, 5)
			So(report.Succeeded, ShouldEqual, 3)
			So(report.Failed, ShouldEqual, 2)
			So(report.Errors, ShouldResemble, []string{"Row 2: a", "Row 4: b"})
		})

		Convey("returns an empty list, not nil, without failures", func() {
			report := Finalize(1, 1, 0, nil)
			So(report.Errors, ShouldNotBeNil)
			So(report.Errors, ShouldBeEmpty)
		})

		Convey("caps the lines at ten and summarizes the rest", func() {
			var lines []string
			for i := 0; i < 15; i++ {
				lines = append(lines, fmt.Sprintf("Row %d: failed", i+2))
			}
			report := Finalize(15, 0, 15, lines)
			So(len(report.Errors), ShouldEqual, 11)
			So(report.Errors[9], ShouldEqual, "Row 11: failed")
			So(report.Errors[10], ShouldEqual, "... and 5 more errors")
		})

		Convey("uses the failure count for the summary when lines were pre-capped", func() {
			lines := make([]string, 10)
			report := Finalize(40, 10, 30, lines)
			So(len(report.Errors), ShouldEqual, 11)
			So(report.Errors[10], ShouldEqual, "... and 20 more errors")
		})

		Convey("honours a custom limit", func() {
			report := FinalizeWithLimit(2, 4, 0, 4, []string{"a", "b", "c", "d"})
			So(report.Errors, ShouldResemble, []string{"a", "b", "... and 2 more errors"})
		})
	})
}
