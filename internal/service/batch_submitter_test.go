package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"

	"contacts-admin/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func validRow(row int, name string) ValidationOutcome {
	return validOutcome(row, models.ContactRecord{Name: name, Surname: "S", CategoryID: 1})
}

// recordingCreator answers from a per-name script and remembers the calls.
type recordingCreator struct {
	calls   []string
	results map[string]models.CreateResult
	errs    map[string]error
}

func (c *recordingCreator) Create(ctx context.Context, rec models.ContactRecord) (models.CreateResult, error) {
	c.calls = append(c.calls, rec.Name)
	if err, ok := c.errs[rec.Name]; ok {
		return models.CreateResult{}, err
	}
	if res, ok := c.results[rec.Name]; ok {
		return res, nil
	}
	return models.CreateResult{Success: true}, nil
}

func TestBatchSubmitter(t *testing.T) {
	Convey("BatchSubmitter.Submit", t, func() {
		submitter := NewBatchSubmitter(10, quietLogger())
		ctx := context.Background()

		Convey("calls the creator in row order and only for valid rows", func() {
			creator := &recordingCreator{}
			outcomes := []ValidationOutcome{
				validRow(2, "a"),
				invalidOutcome(3, "Row 3: name and surname are required"),
				validRow(4, "b"),
				validRow(5, "c"),
			}

			result := submitter.Submit(ctx, outcomes, creator, nil)
			So(creator.calls, ShouldResemble, []string{"a", "b", "c"})
			So(result.Succeeded, ShouldEqual, 3)
			So(result.Failed, ShouldEqual, 1)
			So(result.Processed, ShouldEqual, 4)
			So(result.ErrorLines, ShouldResemble, []string{"Row 3: name and surname are required"})
		})

		Convey("formats structured rejections and call errors", func() {
			creator := &recordingCreator{
				results: map[string]models.CreateResult{
					"dup":   {Success: false, Message: "duplicate TC number"},
					"blank": {Success: false},
				},
				errs: map[string]error{"down": errors.New("connection refused")},
			}
			outcomes := []ValidationOutcome{
				validRow(2, "dup"), validRow(3, "ok"), validRow(4, "blank"), validRow(5, "down"), validRow(6, "ok2"),
			}

			result := submitter.Submit(ctx, outcomes, creator, nil)
			So(result.Succeeded, ShouldEqual, 2)
			So(result.Failed, ShouldEqual, 3)
			So(result.ErrorLines, ShouldResemble, []string{
				"Row 2: duplicate TC number",
				"Row 4: unknown error",
				"Row 5: connection refused",
			})
			So(len(creator.calls), ShouldEqual, 5)
		})

		Convey("turns a panicking creator into a row failure", func() {
			creator := CreatorFunc(func(ctx context.Context, rec models.ContactRecord) (models.CreateResult, error) {
				if rec.Name == "boom" {
					panic("nil map")
				}
				return models.CreateResult{Success: true}, nil
			})

			result := submitter.Submit(ctx, []ValidationOutcome{validRow(2, "boom"), validRow(3, "fine")}, creator, nil)
			So(result.Succeeded, ShouldEqual, 1)
			So(result.Failed, ShouldEqual, 1)
			So(result.ErrorLines[0], ShouldStartWith, "Row 2: panic")
		})

		Convey("reports progress after every row", func() {
			var seen []int
			outcomes := []ValidationOutcome{validRow(2, "a"), validRow(3, "b"), validRow(4, "c")}
			submitter.Submit(ctx, outcomes, &recordingCreator{}, func(p int) { seen = append(seen, p) })
			So(seen, ShouldResemble, []int{33, 66, 100})
		})

		Convey("does not report progress for an empty batch", func() {
			called := false
			result := submitter.Submit(ctx, nil, &recordingCreator{}, func(int) { called = true })
			So(called, ShouldBeFalse)
			So(result.Processed, ShouldEqual, 0)
			So(result.ErrorLines, ShouldBeEmpty)
		})

		Convey("keeps counting failures beyond the stored line limit", func() {
			var outcomes []ValidationOutcome
			for i := 0; i < 25; i++ {
				outcomes = append(outcomes, invalidOutcome(i+2, fmt.Sprintf("Row %d: name and surname are required", i+2)))
			}
			result := submitter.Submit(ctx, outcomes, &recordingCreator{}, nil)
			So(result.Failed, ShouldEqual, 25)
			So(len(result.ErrorLines), ShouldEqual, 10)
		})

		Convey("stops before the next create once cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var calls int
			creator := CreatorFunc(func(callCtx context.Context, rec models.ContactRecord) (models.CreateResult, error) {
				calls++
				cancel()
				So(callCtx.Err(), ShouldBeNil)
				return models.CreateResult{Success: true}, nil
			})

			outcomes := []ValidationOutcome{validRow(2, "a"), validRow(3, "b"), validRow(4, "c")}
			result := submitter.Submit(ctx, outcomes, creator, nil)
			So(calls, ShouldEqual, 1)
			So(result.Cancelled, ShouldBeTrue)
			So(result.Processed, ShouldEqual, 1)
			So(result.Succeeded+result.Failed, ShouldEqual, result.Processed)
		})
	})
}
