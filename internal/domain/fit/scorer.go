// Package fit scores how well a candidate opponent or tournament suits a team
// given its rating, the travel involved and the team's existing schedule.
package fit

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/schedule"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithConfig sets the default scoring curve.
func WithConfig(cfg Config) Option {
	return func(s *Scorer) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger for malformed candidate or schedule data.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scorer is safe for concurrent use.
type Scorer struct {
	cfg    Config
	logger logger.Logger
}

// NewScorer builds a Scorer, failing fast on an invalid config.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		cfg:    DefaultConfig(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the scorer's default curve.
func (s *Scorer) Config() Config { return s.cfg }

// EvaluateTournament scores a tournament candidate against the team's schedule.
func (s *Scorer) EvaluateTournament(ctx context.Context, c model.Candidate, team model.Team, events []model.Event) types.TournamentFitEvaluation {
	return s.assess(ctx, c, model.KindTournament, team, events, s.cfg).tournament()
}

// EvaluateTournamentWith scores with a per-call curve.
func (s *Scorer) EvaluateTournamentWith(ctx context.Context, c model.Candidate, team model.Team, events []model.Event, cfg Config) (types.TournamentFitEvaluation, error) {
	if err := cfg.Validate(); err != nil {
		return types.TournamentFitEvaluation{}, err
	}
	return s.assess(ctx, c, model.KindTournament, team, events, cfg).tournament(), nil
}

// EvaluateOpponent scores an opponent candidate. An opponent without a
// proposed date scores neutral schedule compatibility.
func (s *Scorer) EvaluateOpponent(ctx context.Context, c model.Candidate, team model.Team, events []model.Event) types.OpponentMatch {
	return s.assess(ctx, c, model.KindGame, team, events, s.cfg).opponent()
}

// EvaluateOpponentWith scores with a per-call curve.
func (s *Scorer) EvaluateOpponentWith(ctx context.Context, c model.Candidate, team model.Team, events []model.Event, cfg Config) (types.OpponentMatch, error) {
	if err := cfg.Validate(); err != nil {
		return types.OpponentMatch{}, err
	}
	return s.assess(ctx, c, model.KindGame, team, events, cfg).opponent(), nil
}

// assessment is the kind-independent result both public shapes are built from.
type assessment struct {
	candidate model.Candidate
	cfg       Config

	ratingFit float64
	travel    float64
	schedule  float64
	overall   float64

	ratingDelta *float64
	miles       *float64
	dated       bool
	conflicts   int
	nearby      int
	label       types.FitLabel
}

func (s *Scorer) assess(ctx context.Context, c model.Candidate, kind model.EventKind, team model.Team, events []model.Event, cfg Config) assessment {
	a := assessment{candidate: c, cfg: cfg}

	a.ratingFit = neutralScore
	if c.Rating != nil && team.Rating != nil && !math.IsNaN(*c.Rating) && !math.IsNaN(*team.Rating) {
		delta := math.Abs(*c.Rating - *team.Rating)
		a.ratingDelta = &delta
		a.ratingFit = clamp(maxScore - delta*cfg.RatingDecayPerPoint)
	}

	a.travel = neutralScore
	if d := c.Location.DistanceFromHome; d != nil && !math.IsNaN(*d) && *d >= 0 {
		miles := *d
		a.miles = &miles
		a.travel = clamp(maxScore * (1 - miles/cfg.MaxTravelMiles))
	}

	a.schedule = neutralScore
	cand := c.AsEvent()
	cand.Kind = kind
	if strings.TrimSpace(cand.Date) != "" {
		days, err := schedule.Span(cand)
		if err != nil {
			s.logger.Debug(ctx, "candidate date unusable, scoring schedule as neutral",
				logger.String("candidateId", c.ID), logger.Error(err))
		} else {
			a.dated = true
			a.conflicts, a.nearby = s.scan(ctx, cand, days, events, cfg)
			a.schedule = clamp(maxScore -
				float64(a.conflicts)*conflictPenalty -
				float64(a.nearby-a.conflicts)*nearbyPenalty)
		}
	}

	a.ratingFit, a.travel, a.schedule = round1(a.ratingFit), round1(a.travel), round1(a.schedule)
	a.overall = round1(cfg.RatingWeight*a.ratingFit + cfg.TravelWeight*a.travel + cfg.ScheduleWeight*a.schedule)
	a.label = a.reduce()
	return a
}

// scan counts existing events near the candidate and the subset that
// hard-conflict with it. Events with unusable dates are ignored.
func (s *Scorer) scan(ctx context.Context, cand model.Event, days []time.Time, events []model.Event, cfg Config) (conflicts, nearby int) {
	first, last := days[0], days[len(days)-1]
	candWindow, hasWindow := s.window(ctx, cand, first, cfg)

	for _, ev := range events {
		if !ev.Kind.IsValid() {
			continue
		}
		span, err := schedule.Span(ev)
		if err != nil {
			s.logger.Debug(ctx, "scheduled event ignored for fit", logger.String("eventId", ev.ID), logger.Error(err))
			continue
		}
		gap := daysBetween(first, last, span[0], span[len(span)-1])
		if gap > cfg.NearbyWindowDays {
			continue
		}
		nearby++
		if gap > 0 {
			continue
		}
		if cand.IsTournament() || ev.IsTournament() {
			conflicts++
			continue
		}
		if !hasWindow {
			continue
		}
		if w, ok := s.window(ctx, ev, span[0], cfg); ok && schedule.OverlapMinutes(candWindow, w) > 0 {
			conflicts++
		}
	}
	return conflicts, nearby
}

func (s *Scorer) window(ctx context.Context, ev model.Event, day time.Time, cfg Config) (schedule.Window, bool) {
	if ev.IsTournament() || strings.TrimSpace(ev.StartTime) == "" {
		return schedule.Window{}, false
	}
	w, err := schedule.GameWindow(day, ev.StartTime, ev.EndTime, cfg.gameDuration())
	if err != nil {
		s.logger.Debug(ctx, "time ignored for fit", logger.String("eventId", ev.ID), logger.Error(err))
		return schedule.Window{}, false
	}
	return w, true
}

// reduce applies the label policy. Schedule problems outrank travel, which
// outranks the overall score.
func (a assessment) reduce() types.FitLabel {
	switch {
	case a.conflicts > 0 || a.schedule < TightAvailabilityThreshold:
		return types.TightSchedule
	case a.travel < TravelHeavyThreshold && a.ratingFit >= AcceptableRatingThreshold:
		return types.TravelHeavy
	case a.overall > GoodFitThreshold:
		return types.GoodFit
	case a.travel < a.schedule:
		return types.TravelHeavy
	default:
		return types.TightSchedule
	}
}

func (a assessment) tournament() types.TournamentFitEvaluation {
	return types.TournamentFitEvaluation{
		CandidateID: a.candidate.ID,
		FitLabel:    a.label,
		Explanation: a.explain(),
		Scores: types.TournamentFitScores{
			RatingFit:            a.ratingFit,
			TravelScore:          a.travel,
			ScheduleAvailability: a.schedule,
		},
		OverallScore:        a.overall,
		HasScheduleConflict: a.conflicts > 0,
		GamesNearby:         a.nearby,
	}
}

func (a assessment) opponent() types.OpponentMatch {
	return types.OpponentMatch{
		CandidateID: a.candidate.ID,
		Scores: types.MatchScores{
			RatingFit:             a.ratingFit,
			TravelScore:           a.travel,
			ScheduleCompatibility: a.schedule,
			Overall:               a.overall,
		},
		FitLabel:            a.label,
		Explanation:         a.explain(),
		HasScheduleConflict: a.conflicts > 0,
		GamesNearby:         a.nearby,
	}
}

// daysBetween returns the calendar days separating two inclusive ranges, 0
// when they share a day.
func daysBetween(aFirst, aLast, bFirst, bLast time.Time) int {
	switch {
	case bLast.Before(aFirst):
		return schedule.DaysApart(bLast, aFirst)
	case aLast.Before(bFirst):
		return schedule.DaysApart(aLast, bFirst)
	default:
		return 0
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
