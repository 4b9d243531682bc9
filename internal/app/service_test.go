package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/queue"
	service "github.com/Jmurp11/hockey-team-scheduler-sub003/internal/app"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/fit"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func season() []model.Event {
	return []model.Event{
		{ID: "A", Kind: model.KindGame, Date: "2024-06-01", StartTime: "18:00", IsHome: true,
			Location: model.Location{Name: "Rink X", DistanceFromHome: model.Float64(0)}},
		{ID: "B", Kind: model.KindGame, Date: "2024-06-01", StartTime: "18:30",
			Location: model.Location{Name: "Rink Y", DistanceFromHome: model.Float64(80)}},
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(8))
		ctx := context.Background()

		Convey("When used before starting", func() {
			_, err := svc.EvaluateRisks(ctx, season(), nil)
			_, ferr := svc.ScoreTournaments(ctx, model.Team{}, []model.Candidate{{ID: "c"}}, nil)

			Convey("Then operations report it is not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(ferr, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When started and stopped repeatedly", func() {
			for i := 0; i < 3; i++ {
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.Stop(ctx), ShouldBeNil)
			}

			Convey("Then it ends stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})

		Convey("When the engine config is invalid", func() {
			cfg := risk.DefaultConfig()
			cfg.TravelRiskDistanceMiles = -1
			bad := service.New(service.WithRiskConfig(cfg))

			Convey("Then start fails", func() {
				So(errors.Is(bad.Start(ctx), risk.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestServiceEvaluateRisks(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(t, service.WithCacheSize(4))
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When evaluating the same schedule twice", func() {
			first, err := svc.EvaluateRisks(ctx, season(), nil)
			So(err, ShouldBeNil)
			reversed := season()
			reversed[0], reversed[1] = reversed[1], reversed[0]
			second, err := svc.EvaluateRisks(ctx, reversed, nil)
			So(err, ShouldBeNil)

			Convey("Then the second call is served from the cache", func() {
				So(first.TotalRisks, ShouldEqual, 2)
				So(second, ShouldResemble, first)
				stats := svc.GetStats()
				So(stats["riskEvaluations"], ShouldEqual, int64(1))
				So(stats["cacheHits"], ShouldEqual, int64(1))
				So(stats["cacheEntries"], ShouldEqual, int64(1))
			})
		})

		Convey("When overriding thresholds per call", func() {
			cfg := risk.DefaultConfig()
			cfg.TravelRiskDistanceMiles = 100
			eval, err := svc.EvaluateRisks(ctx, season(), &cfg)

			Convey("Then the override applies", func() {
				So(err, ShouldBeNil)
				So(eval.TotalRisks, ShouldEqual, 1)
				So(eval.Risks[0].RiskType, ShouldEqual, types.HardTimeConflict)
			})
		})

		Convey("When the override is invalid", func() {
			cfg := risk.DefaultConfig()
			cfg.CloseStartSeverity = "fatal"
			_, err := svc.EvaluateRisks(ctx, season(), &cfg)

			Convey("Then it is rejected as invalid input", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, risk.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestServiceScoring(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(t, service.WithWorkerCount(4), service.WithMaxBatchSize(50))
		defer func() { _ = svc.Stop(ctx) }()

		team := model.Team{ID: "home", Rating: model.Float64(5)}
		var candidates []model.Candidate
		for i := 0; i < 30; i++ {
			candidates = append(candidates, model.Candidate{
				ID:       fmt.Sprintf("cup-%02d", i),
				Kind:     model.CandidateTournament,
				Rating:   model.Float64(5),
				Date:     "2024-07-12",
				EndDate:  "2024-07-14",
				Location: model.Location{DistanceFromHome: model.Float64(float64(i * 10))},
			})
		}

		Convey("When scoring a batch of tournaments", func() {
			got, err := svc.ScoreTournaments(ctx, team, candidates, season())

			Convey("Then results follow the candidate order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, len(candidates))
				for i, r := range got {
					So(r.CandidateID, ShouldEqual, candidates[i].ID)
				}
				So(got[0].FitLabel, ShouldEqual, types.GoodFit)
			})

			Convey("Then they match scoring each candidate directly", func() {
				scorer, err := fit.NewScorer()
				So(err, ShouldBeNil)
				for i, c := range candidates {
					So(got[i], ShouldResemble, scorer.EvaluateTournament(ctx, c, team, season()))
				}
			})
		})

		Convey("When scoring opponents", func() {
			opps := []model.Candidate{
				{ID: "o1", Kind: model.CandidateOpponent, Rating: model.Float64(5), Date: "2024-06-01", StartTime: "18:15"},
				{ID: "o2", Kind: model.CandidateOpponent, Rating: model.Float64(5)},
			}
			got, err := svc.ScoreOpponents(ctx, team, opps, season())

			Convey("Then each opponent is scored", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].CandidateID, ShouldEqual, "o1")
				So(got[0].HasScheduleConflict, ShouldBeTrue)
				So(got[0].FitLabel, ShouldEqual, types.TightSchedule)
				So(got[1].HasScheduleConflict, ShouldBeFalse)
			})
		})

		Convey("When the batch is empty", func() {
			got, err := svc.ScoreOpponents(ctx, team, nil, nil)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When the batch exceeds the limit", func() {
			big := make([]model.Candidate, 51)
			_, err := svc.ScoreTournaments(ctx, team, big, nil)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When batches run concurrently", func() {
			var wg sync.WaitGroup
			errs := make([]error, 6)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = svc.ScoreTournaments(ctx, team, candidates, season())
				}(i)
			}
			wg.Wait()

			Convey("Then every batch completes", func() {
				for _, err := range errs {
					So(err, ShouldBeNil)
				}
				So(svc.GetStats()["jobsProcessed"], ShouldBeGreaterThanOrEqualTo, int64(6*len(candidates)))
			})
		})
	})
}

func TestServiceBatchLimit(t *testing.T) {
	Convey("Given a batch limit larger than the queue", t, func() {
		ctx := context.Background()
		svc := startedService(t, service.WithWorkerCount(1), service.WithQueueSize(4), service.WithMaxBatchSize(50))
		defer func() { _ = svc.Stop(ctx) }()

		team := model.Team{ID: "home", Rating: model.Float64(5)}
		batch := func(n int) []model.Candidate {
			out := make([]model.Candidate, n)
			for i := range out {
				out[i] = model.Candidate{ID: fmt.Sprintf("cup-%d", i), Kind: model.CandidateTournament,
					Rating: model.Float64(5), Date: "2024-07-12", EndDate: "2024-07-14"}
			}
			return out
		}

		Convey("Then the limit is clamped to the queue size", func() {
			So(svc.MaxBatchSize(), ShouldEqual, 4)
		})

		Convey("When a batch fills the queue exactly", func() {
			got, err := svc.ScoreTournaments(ctx, team, batch(4), nil)

			Convey("Then every candidate is scored", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 4)
			})
		})

		Convey("When a batch is larger than the queue", func() {
			_, err := svc.ScoreTournaments(ctx, team, batch(5), nil)

			Convey("Then it is rejected before any job is queued", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, queue.ErrFull), ShouldBeFalse)
			})
		})
	})
}
