package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
)

func job(i int) Job {
	return Job{Index: i, Candidate: model.Candidate{ID: fmt.Sprintf("c%d", i)}}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory queue with capacity 2", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(2))

		Convey("When it is empty", func() {
			So(q.Len(ctx), ShouldEqual, 0)
			So(q.IsClosed(), ShouldBeFalse)
		})

		Convey("When a job is enqueued and dequeued", func() {
			So(q.Enqueue(ctx, job(0)), ShouldBeNil)
			So(q.Len(ctx), ShouldEqual, 1)

			got := <-q.Dequeue(ctx)

			Convey("Then the same job comes out", func() {
				So(got.Index, ShouldEqual, 0)
				So(got.Candidate.ID, ShouldEqual, "c0")
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, job(0)), ShouldBeNil)
			So(q.Enqueue(ctx, job(1)), ShouldBeNil)
			err := q.Enqueue(ctx, job(2))

			Convey("Then enqueue reports backpressure", func() {
				So(errors.Is(err, ErrFull), ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then enqueue returns the context error", func() {
				So(errors.Is(q.Enqueue(cctx, job(0)), context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, job(0)), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then new jobs are rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, job(1)), ErrClosed), ShouldBeTrue)
			})

			Convey("Then queued jobs drain before the channel closes", func() {
				ch := q.Dequeue(ctx)
				first, ok := <-ch
				So(ok, ShouldBeTrue)
				So(first.Index, ShouldEqual, 0)
				_, ok = <-ch
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestInMemoryQueueConcurrentAccess(t *testing.T) {
	Convey("Given producers and a consumer sharing a queue", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(16))
		const producers, perProducer = 8, 50

		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					for q.Enqueue(ctx, job(p*perProducer+i)) != nil {
						time.Sleep(time.Millisecond)
					}
				}
			}(p)
		}

		seen := make(map[int]bool)
		ch := q.Dequeue(ctx)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			_ = q.Close()
			close(done)
		}()
		for j := range ch {
			seen[j.Index] = true
		}
		<-done

		Convey("Then every job is delivered once", func() {
			So(len(seen), ShouldEqual, producers*perProducer)
		})
	})
}
