package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/merito/gigscore/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory rescore queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing a job", func() {
			q := queue.NewInMemoryQueue()
			ok := q.Enqueue(ctx, queue.Job{JobID: "j1", UserID: "u1"})

			Convey("Then the job is queued", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When dequeuing", func() {
			q := queue.NewInMemoryQueue()
			q.Enqueue(ctx, queue.Job{JobID: "j1", UserID: "u1"})
			q.Enqueue(ctx, queue.Job{JobID: "j2", UserID: "u2"})

			jobs := q.Dequeue(ctx)

			Convey("Then jobs come out in order", func() {
				first := <-jobs
				second := <-jobs
				So(first.JobID, ShouldEqual, "j1")
				So(second.JobID, ShouldEqual, "j2")
			})
		})

		Convey("When the queue is at capacity", func() {
			q := queue.NewInMemoryQueue(
				queue.WithCapacity(2),
				queue.WithBufferSize(2),
			)
			So(q.Enqueue(ctx, queue.Job{JobID: "j1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{JobID: "j2"}), ShouldBeTrue)

			Convey("Then further enqueues report backpressure", func() {
				So(q.Enqueue(ctx, queue.Job{JobID: "j3"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues fail and the state is visible", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{JobID: "j1"}), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel drains then closes", func() {
				jobs := q.Dequeue(ctx)
				select {
				case _, open := <-jobs:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("dequeue channel did not close", ShouldBeEmpty)
				}
			})
		})

		Convey("When the dequeue context is canceled", func() {
			q := queue.NewInMemoryQueue()
			dctx, cancel := context.WithCancel(ctx)
			jobs := q.Dequeue(dctx)

			q.Enqueue(ctx, queue.Job{JobID: "j1"})
			<-jobs
			cancel()
			q.Enqueue(ctx, queue.Job{JobID: "j2"})
			// Let the feeder goroutine observe the canceled context
			// before probing the channel.
			time.Sleep(50 * time.Millisecond)

			Convey("Then the consumer channel closes", func() {
				select {
				case _, open := <-jobs:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("dequeue channel did not close", ShouldBeEmpty)
				}
			})
		})
	})
}
