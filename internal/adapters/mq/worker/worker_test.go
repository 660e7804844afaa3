package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/merito/gigscore/internal/adapters/mq/queue"
	"github.com/merito/gigscore/internal/adapters/mq/worker"
	"github.com/merito/gigscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeRescorer records which users it was asked to rescore.
type fakeRescorer struct {
	mu    sync.Mutex
	seen  []string
	fail  bool
	calls chan struct{}
}

func newFakeRescorer(buffer int) *fakeRescorer {
	return &fakeRescorer{calls: make(chan struct{}, buffer)}
}

func (f *fakeRescorer) Rescore(_ context.Context, userID string) (model.ScoreBreakdown, error) {
	f.mu.Lock()
	f.seen = append(f.seen, userID)
	f.mu.Unlock()
	f.calls <- struct{}{}
	if f.fail {
		return model.ScoreBreakdown{}, errors.New("store unavailable")
	}
	return model.ScoreBreakdown{UserID: userID, FinalScore: 100, Tier: model.Bronze}, nil
}

func (f *fakeRescorer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func waitForCalls(calls <-chan struct{}, n int) bool {
	for i := 0; i < n; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			return false
		}
	}
	return true
}

func TestWorkerPool(t *testing.T) {
	Convey("Given a worker pool over a job queue", t, func() {
		ctx := context.Background()

		Convey("When jobs are enqueued", func() {
			q := queue.NewInMemoryQueue()
			r := newFakeRescorer(8)
			pool := worker.NewPool(2, q, r)
			pool.Start(ctx)

			q.Enqueue(ctx, queue.Job{JobID: "j1", UserID: "u1"})
			q.Enqueue(ctx, queue.Job{JobID: "j2", UserID: "u2"})
			q.Enqueue(ctx, queue.Job{JobID: "j3", UserID: "u3"})

			Convey("Then every job is rescored", func() {
				So(waitForCalls(r.calls, 3), ShouldBeTrue)
				So(r.count(), ShouldEqual, 3)
				pool.Stop()
			})
		})

		Convey("When the rescorer fails", func() {
			q := queue.NewInMemoryQueue()
			r := newFakeRescorer(8)
			r.fail = true
			pool := worker.NewPool(1, q, r)
			pool.Start(ctx)

			q.Enqueue(ctx, queue.Job{JobID: "j1", UserID: "u1"})
			q.Enqueue(ctx, queue.Job{JobID: "j2", UserID: "u2"})

			Convey("Then the worker keeps draining past failures", func() {
				So(waitForCalls(r.calls, 2), ShouldBeTrue)
				So(r.count(), ShouldEqual, 2)
				pool.Stop()
			})
		})

		Convey("When the pool is stopped", func() {
			q := queue.NewInMemoryQueue()
			r := newFakeRescorer(8)
			pool := worker.NewPool(2, q, r)
			pool.Start(ctx)
			pool.Stop()

			q.Enqueue(ctx, queue.Job{JobID: "j1", UserID: "u1"})

			Convey("Then no further jobs are processed", func() {
				select {
				case <-r.calls:
					So("job processed after stop", ShouldBeEmpty)
				case <-time.After(200 * time.Millisecond):
					So(r.count(), ShouldEqual, 0)
				}
			})
		})

		Convey("When the pool is created with a non-positive count", func() {
			q := queue.NewInMemoryQueue()
			pool := worker.NewPool(0, q, newFakeRescorer(1))

			Convey("Then it still runs with one worker", func() {
				So(pool, ShouldNotBeNil)
				pool.Start(ctx)
				pool.Stop()
			})
		})
	})
}
