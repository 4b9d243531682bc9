package cache_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/cache"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

func evaluation(id string) types.ScheduleRiskEvaluation {
	return types.ScheduleRiskEvaluation{
		Risks: []types.ScheduleRisk{{
			ID:             id,
			RiskType:       types.HardTimeConflict,
			Severity:       types.SeverityError,
			AffectedEvents: []types.AffectedEvent{{ID: "a"}, {ID: "b"}},
		}},
		TotalRisks:      1,
		CountBySeverity: types.SeverityCounts{Error: 1},
	}
}

func TestLRUCache(t *testing.T) {
	Convey("Given a new LRU cache", t, func() {
		ctx := context.Background()

		Convey("When creating a cache with default options", func() {
			c := cache.NewLRU()

			Convey("Then it should be empty", func() {
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, 1)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When storing an evaluation", func() {
			c := cache.NewLRU(cache.WithMaxSize(2))
			c.Put(ctx, 1, evaluation("r1"))

			Convey("Then it can be read back", func() {
				got, ok := c.Get(ctx, 1)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, evaluation("r1"))
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("Then mutating the returned value does not change the cache", func() {
				got, _ := c.Get(ctx, 1)
				got.Risks[0].ID = "changed"
				got.Risks[0].AffectedEvents[0].ID = "changed"
				again, _ := c.Get(ctx, 1)
				So(again, ShouldResemble, evaluation("r1"))
			})

			Convey("Then storing the same key replaces the value", func() {
				c.Put(ctx, 1, evaluation("r2"))
				got, _ := c.Get(ctx, 1)
				So(got.Risks[0].ID, ShouldEqual, "r2")
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the cache is full", func() {
			c := cache.NewLRU(cache.WithMaxSize(2))
			c.Put(ctx, 1, evaluation("r1"))
			c.Put(ctx, 2, evaluation("r2"))
			_, _ = c.Get(ctx, 1)
			c.Put(ctx, 3, evaluation("r3"))

			Convey("Then the least recently used entry is evicted", func() {
				So(c.Size(), ShouldEqual, 2)
				_, ok := c.Get(ctx, 2)
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, 1)
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, 3)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is disabled", func() {
			c := cache.NewLRU(cache.WithMaxSize(0))
			c.Put(ctx, 1, evaluation("r1"))

			Convey("Then nothing is stored", func() {
				_, ok := c.Get(ctx, 1)
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 0)
			})
		})

		Convey("When used concurrently", func() {
			c := cache.NewLRU(cache.WithMaxSize(16))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						key := uint64(g*100 + i)
						c.Put(ctx, key, evaluation(fmt.Sprint(key)))
						_, _ = c.Get(ctx, key)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the size stays bounded", func() {
				So(c.Size(), ShouldEqual, 16)
			})
		})
	})
}

func TestFingerprint(t *testing.T) {
	Convey("Given a schedule", t, func() {
		events := []model.Event{
			{ID: "a", Kind: model.KindGame, Date: "2024-06-01", StartTime: "18:00"},
			{ID: "b", Kind: model.KindGame, Date: "2024-06-01", StartTime: "18:30"},
		}
		cfg := risk.DefaultConfig()
		base, err := cache.Fingerprint(events, cfg)
		So(err, ShouldBeNil)

		Convey("Then reordering events keeps the fingerprint", func() {
			got, err := cache.Fingerprint([]model.Event{events[1], events[0]}, cfg)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, base)
		})

		Convey("Then changing an event changes the fingerprint", func() {
			changed := append([]model.Event(nil), events...)
			changed[1].StartTime = "19:00"
			got, _ := cache.Fingerprint(changed, cfg)
			So(got, ShouldNotEqual, base)
		})

		Convey("Then changing the thresholds changes the fingerprint", func() {
			other := cfg
			other.MinBufferMinutes = 30
			got, _ := cache.Fingerprint(events, other)
			So(got, ShouldNotEqual, base)
		})

		Convey("Then an unencodable distance is an error", func() {
			bad := append([]model.Event(nil), events...)
			bad[0].Location.DistanceFromHome = model.Float64(math.NaN())
			_, err := cache.Fingerprint(bad, cfg)
			So(err, ShouldNotBeNil)
		})
	})
}
