package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/queue"
	worker "github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/worker"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

type stubScorer struct {
	panicOn string
}

func (s stubScorer) EvaluateTournament(_ context.Context, c model.Candidate, _ model.Team, events []model.Event) types.TournamentFitEvaluation {
	if c.ID == s.panicOn {
		panic("boom")
	}
	return types.TournamentFitEvaluation{CandidateID: c.ID, FitLabel: types.GoodFit, GamesNearby: len(events)}
}

func (s stubScorer) EvaluateOpponent(_ context.Context, c model.Candidate, _ model.Team, _ []model.Event) types.OpponentMatch {
	if c.ID == s.panicOn {
		panic("boom")
	}
	return types.OpponentMatch{CandidateID: c.ID, FitLabel: types.TravelHeavy}
}

func submit(ctx context.Context, q *queue.InMemoryQueue, reply chan queue.Result, idx int, id string, kind model.CandidateKind) {
	err := q.Enqueue(ctx, queue.Job{
		Index:     idx,
		Candidate: model.Candidate{ID: id, Kind: kind},
		Kind:      kind,
		Events:    []model.Event{{ID: "e1"}},
		Reply:     reply,
	})
	convey.So(err, convey.ShouldBeNil)
}

func receive(reply chan queue.Result, n int) map[int]queue.Result {
	out := make(map[int]queue.Result, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case r := <-reply:
			out[r.Index] = r
		case <-timeout:
			return out
		}
	}
	return out
}

func TestPool(t *testing.T) {
	convey.Convey("Given a started worker pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		pool := worker.NewPool(3, q, stubScorer{panicOn: "bad"})
		pool.Start(ctx)
		reply := make(chan queue.Result, 8)

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When tournament and opponent jobs are submitted", func() {
			submit(ctx, q, reply, 0, "t1", model.CandidateTournament)
			submit(ctx, q, reply, 1, "o1", model.CandidateOpponent)
			got := receive(reply, 2)

			convey.Convey("Then each job gets its own result", func() {
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(got[0].Err, convey.ShouldBeNil)
				convey.So(got[0].Tournament.CandidateID, convey.ShouldEqual, "t1")
				convey.So(got[0].Tournament.GamesNearby, convey.ShouldEqual, 1)
				convey.So(got[0].Opponent, convey.ShouldBeNil)
				convey.So(got[1].Opponent.FitLabel, convey.ShouldEqual, types.TravelHeavy)
			})
		})

		convey.Convey("When a job has an unknown kind", func() {
			submit(ctx, q, reply, 0, "x", model.CandidateKind("league"))
			got := receive(reply, 1)

			convey.Convey("Then it fails without a result", func() {
				convey.So(got[0].Err, convey.ShouldNotBeNil)
				convey.So(got[0].Tournament, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the scorer panics", func() {
			submit(ctx, q, reply, 0, "bad", model.CandidateTournament)
			submit(ctx, q, reply, 1, "ok", model.CandidateTournament)
			got := receive(reply, 2)

			convey.Convey("Then that job fails and the pool keeps working", func() {
				convey.So(got[0].Err, convey.ShouldNotBeNil)
				convey.So(got[0].Err.Error(), convey.ShouldContainSubstring, "panic")
				convey.So(got[1].Err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the pool shuts down", func() {
			submit(ctx, q, reply, 0, "t1", model.CandidateTournament)
			submit(ctx, q, reply, 1, "t2", model.CandidateTournament)
			err := pool.Shutdown(context.Background())

			convey.Convey("Then queued jobs are drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(receive(reply, 2), convey.ShouldHaveLength, 2)
				convey.So(pool.Processed(), convey.ShouldEqual, 2)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a pool that was never started", t, func() {
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(0, q, stubScorer{})

		convey.Convey("Then shutdown returns immediately", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, stubScorer{}, worker.WithName("w"))
		go w.Run(context.Background())

		convey.Convey("When it is shut down", func() {
			err := w.Shutdown(context.Background())

			convey.Convey("Then it stops", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}
