package inflight_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/merito/gigscore/internal/domain/inflight"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given an in-flight rescore tracker", t, func() {
		ctx := context.Background()

		Convey("When recording a new id", func() {
			tr := inflight.NewTracker()
			seen := tr.SeenAndRecord(ctx, "user-1")

			Convey("Then it reports unseen and records it", func() {
				So(seen, ShouldBeFalse)
				So(tr.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same id twice", func() {
			tr := inflight.NewTracker()
			tr.SeenAndRecord(ctx, "user-1")
			seen := tr.SeenAndRecord(ctx, "user-1")

			Convey("Then the second call reports in-flight", func() {
				So(seen, ShouldBeTrue)
				So(tr.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			tr := inflight.NewTracker()
			tr.SeenAndRecord(ctx, "user-1")
			tr.Unrecord(ctx, "user-1")

			Convey("Then it can be recorded again", func() {
				So(tr.Size(), ShouldEqual, 0)
				So(tr.SeenAndRecord(ctx, "user-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			tr := inflight.NewTracker()
			tr.Unrecord(ctx, "ghost")

			Convey("Then nothing changes", func() {
				So(tr.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the tracker is full", func() {
			tr := inflight.NewTracker(inflight.WithMaxSize(3))
			for i := 0; i < 3; i++ {
				tr.SeenAndRecord(ctx, fmt.Sprintf("user-%d", i))
			}
			tr.SeenAndRecord(ctx, "user-3")

			Convey("Then the oldest id is evicted to make room", func() {
				So(tr.Size(), ShouldEqual, 3)
				So(tr.SeenAndRecord(ctx, "user-0"), ShouldBeFalse)
			})
		})

		Convey("When many goroutines record concurrently", func() {
			tr := inflight.NewTracker()
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					tr.SeenAndRecord(ctx, fmt.Sprintf("user-%d", n%10))
				}(i)
			}
			wg.Wait()

			Convey("Then exactly the distinct ids are recorded", func() {
				So(tr.Size(), ShouldEqual, 10)
			})
		})
	})
}
