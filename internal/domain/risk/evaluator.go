// Package risk detects scheduling conflicts in one team's set of games and
// tournaments.
//
// Events are first bucketed by calendar day (tournaments land in every day of
// their span) and only events sharing a bucket are compared pairwise, so the
// cost is quadratic in the size of a single day rather than the whole season.
// Results are advisory: malformed records are reported and skipped, never
// returned as errors.
package risk

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/schedule"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// riskNamespace seeds name-based risk ids so an unchanged schedule always
// yields the same ids.
var riskNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("icetime.schedule-risk")) //nolint:gochecknoglobals // fixed namespace

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithConfig sets the default thresholds used by Evaluate.
func WithConfig(cfg Config) Option {
	return func(e *Evaluator) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger that receives skipped-comparison reports.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// Evaluator is stateless apart from its default config and logger; it is safe
// for concurrent use.
type Evaluator struct {
	cfg    Config
	logger logger.Logger
}

// NewEvaluator builds an Evaluator, failing fast on invalid thresholds.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		cfg:    DefaultConfig(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns the evaluator's default thresholds.
func (e *Evaluator) Config() Config { return e.cfg }

// Evaluate scans events with the evaluator's default thresholds.
func (e *Evaluator) Evaluate(ctx context.Context, events []model.Event) types.ScheduleRiskEvaluation {
	return e.evaluate(ctx, events, e.cfg)
}

// EvaluateWith scans events with per-call thresholds.
func (e *Evaluator) EvaluateWith(ctx context.Context, events []model.Event, cfg Config) (types.ScheduleRiskEvaluation, error) {
	if err := cfg.Validate(); err != nil {
		return types.ScheduleRiskEvaluation{}, err
	}
	return e.evaluate(ctx, events, cfg), nil
}

// entry is an event with its parsed calendar data.
type entry struct {
	event     model.Event
	days      []time.Time
	window    *schedule.Window // games with a valid start time only
	windowErr error
}

func (en *entry) first() time.Time { return en.days[0] }

// pairKey identifies an unordered pair by positions in the sorted entry list.
type pairKey struct{ a, b int }

type riskKey struct {
	pair pairKey
	kind types.RiskType
}

type run struct {
	ctx     context.Context
	cfg     Config
	log     logger.Logger
	entries []*entry
	emitted map[riskKey]struct{}
	skipped map[pairKey]struct{}
	risks   []types.ScheduleRisk
	skips   []types.SkippedComparison
}

func (e *Evaluator) evaluate(ctx context.Context, events []model.Event, cfg Config) types.ScheduleRiskEvaluation {
	r := &run{
		ctx:     ctx,
		cfg:     cfg,
		log:     e.logger,
		emitted: make(map[riskKey]struct{}),
		skipped: make(map[pairKey]struct{}),
	}
	r.prepare(events)

	for _, bucket := range r.buckets() {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				r.compare(bucket[i], bucket[j])
			}
		}
	}

	return r.result()
}

// prepare parses every event, drops the ones without a usable date and sorts
// the rest so that results do not depend on input order.
func (r *run) prepare(events []model.Event) {
	r.entries = make([]*entry, 0, len(events))
	for _, ev := range events {
		if !ev.Kind.IsValid() {
			r.skipEvent(ev, fmt.Sprintf("unknown event kind %q", ev.Kind))
			continue
		}
		days, err := schedule.Span(ev)
		if err != nil {
			r.skipEvent(ev, err.Error())
			continue
		}
		en := &entry{event: ev, days: days}
		if !ev.IsTournament() && strings.TrimSpace(ev.StartTime) != "" {
			w, err := schedule.GameWindow(days[0], ev.StartTime, ev.EndTime, r.cfg.gameDuration())
			if err != nil {
				en.windowErr = err
			} else {
				en.window = &w
			}
		}
		r.entries = append(r.entries, en)
	}

	sort.SliceStable(r.entries, func(i, j int) bool {
		a, b := r.entries[i], r.entries[j]
		if !a.first().Equal(b.first()) {
			return a.first().Before(b.first())
		}
		as, bs := startOf(a), startOf(b)
		if !as.Equal(bs) {
			return as.Before(bs)
		}
		if a.event.ID != b.event.ID {
			return a.event.ID < b.event.ID
		}
		return a.event.Kind < b.event.Kind
	})
}

// startOf orders untimed events at the start of their first day.
func startOf(en *entry) time.Time {
	if en.window != nil {
		return en.window.Start
	}
	return en.first()
}

// buckets groups entry positions by calendar day, days in ascending order.
func (r *run) buckets() [][]int {
	byDay := make(map[time.Time][]int)
	var days []time.Time
	for i, en := range r.entries {
		for _, d := range en.days {
			if _, ok := byDay[d]; !ok {
				days = append(days, d)
			}
			byDay[d] = append(byDay[d], i)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([][]int, 0, len(days))
	for _, d := range days {
		if len(byDay[d]) > 1 {
			out = append(out, byDay[d])
		}
	}
	return out
}

// compare evaluates one same-day pair; i < j so a is the earlier entry.
func (r *run) compare(i, j int) {
	key := pairKey{i, j}
	a, b := r.entries[i], r.entries[j]
	day := sharedDay(a, b)

	switch {
	case r.cfg.TournamentBlocking && (a.event.IsTournament() || b.event.IsTournament()):
		r.emit(key, types.HardTimeConflict, types.SeverityError, func() (string, string) {
			return explainTournamentBlock(a, b, day)
		})
	case a.event.IsTournament() || b.event.IsTournament():
		// Non-blocking tournaments only contribute travel risk.
	case a.windowErr != nil || b.windowErr != nil:
		r.skipPair(key, a, b)
	case a.window != nil && b.window != nil:
		r.compareWindows(key, a, b, day)
	}

	r.compareTravel(key, a, b, day)
}

func (r *run) compareWindows(key pairKey, a, b *entry, day time.Time) {
	overlap := schedule.OverlapMinutes(*a.window, *b.window)
	if overlap > r.cfg.HardConflictToleranceMinutes {
		r.emit(key, types.HardTimeConflict, types.SeverityError, func() (string, string) {
			return explainOverlap(a, b, day, overlap)
		})
		return
	}
	earlier, later := a, b
	if later.window.Start.Before(earlier.window.Start) {
		earlier, later = later, earlier
	}
	gap := schedule.GapMinutes(*earlier.window, *later.window)
	if gap < r.cfg.MinBufferMinutes {
		r.emit(key, types.CloseStartWarning, r.cfg.CloseStartSeverity, func() (string, string) {
			return explainCloseStart(earlier, later, day, gap, r.cfg)
		})
	}
}

func (r *run) compareTravel(key pairKey, a, b *entry, day time.Time) {
	if !a.event.IsAway() && !b.event.IsAway() {
		return
	}
	if schedule.SameVenue(a.event.Location, b.event.Location) {
		return
	}
	miles, ok := schedule.EventDistance(a.event, b.event)
	if !ok {
		r.log.Debug(r.ctx, "travel check skipped: venue distance unknown",
			logger.Strings("eventIds", []string{a.event.ID, b.event.ID}),
		)
		return
	}
	if miles >= r.cfg.TravelRiskDistanceMiles {
		r.emit(key, types.SameDayTravelRisk, r.cfg.TravelRiskSeverity, func() (string, string) {
			return explainTravel(a, b, day, miles)
		})
	}
}

// emit records a risk once per pair and type; tournaments sharing several
// days with another event reach the same pair more than once.
func (r *run) emit(key pairKey, kind types.RiskType, sev types.Severity, text func() (string, string)) {
	rk := riskKey{pair: key, kind: kind}
	if _, dup := r.emitted[rk]; dup {
		return
	}
	r.emitted[rk] = struct{}{}

	a, b := r.entries[key.a], r.entries[key.b]
	explanation, suggestion := text()
	r.risks = append(r.risks, types.ScheduleRisk{
		ID:             riskID(kind, a.event.ID, b.event.ID),
		RiskType:       kind,
		Severity:       sev,
		AffectedEvents: []types.AffectedEvent{affected(a), affected(b)},
		Explanation:    explanation,
		Suggestion:     suggestion,
	})
}

func (r *run) skipEvent(ev model.Event, reason string) {
	r.skips = append(r.skips, types.SkippedComparison{EventIDs: []string{ev.ID}, Reason: reason})
	r.log.Warn(r.ctx, "event skipped", logger.String("eventId", ev.ID), logger.String("reason", reason))
}

func (r *run) skipPair(key pairKey, a, b *entry) {
	if _, dup := r.skipped[key]; dup {
		return
	}
	r.skipped[key] = struct{}{}
	if b.event.ID < a.event.ID {
		a, b = b, a
	}

	var reasons []string
	for _, en := range []*entry{a, b} {
		if en.windowErr != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", en.event.ID, en.windowErr))
		}
	}
	reason := "time comparison skipped: " + strings.Join(reasons, "; ")
	ids := []string{a.event.ID, b.event.ID}
	r.skips = append(r.skips, types.SkippedComparison{EventIDs: ids, Reason: reason})
	r.log.Warn(r.ctx, "comparison skipped", logger.Strings("eventIds", ids), logger.String("reason", reason))
}

func (r *run) result() types.ScheduleRiskEvaluation {
	earliest := func(risk types.ScheduleRisk) string {
		min := ""
		for _, ae := range risk.AffectedEvents {
			if min == "" || ae.Date < min {
				min = ae.Date
			}
		}
		return min
	}
	sort.SliceStable(r.risks, func(i, j int) bool {
		a, b := r.risks[i], r.risks[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if da, db := earliest(a), earliest(b); da != db {
			return da < db
		}
		return a.ID < b.ID
	})

	sort.SliceStable(r.skips, func(i, j int) bool {
		a, b := r.skips[i], r.skips[j]
		if ka, kb := strings.Join(a.EventIDs, ","), strings.Join(b.EventIDs, ","); ka != kb {
			return ka < kb
		}
		return a.Reason < b.Reason
	})

	eval := types.ScheduleRiskEvaluation{
		Risks:      r.risks,
		TotalRisks: len(r.risks),
		Skipped:    r.skips,
	}
	if eval.Risks == nil {
		eval.Risks = []types.ScheduleRisk{}
	}
	for _, risk := range eval.Risks {
		switch risk.Severity {
		case types.SeverityError:
			eval.CountBySeverity.Error++
		case types.SeverityWarning:
			eval.CountBySeverity.Warning++
		case types.SeverityInfo:
			eval.CountBySeverity.Info++
		}
	}
	return eval
}

// riskID derives a stable id from the risk type and the unordered id pair.
func riskID(kind types.RiskType, a, b string) string {
	if b < a {
		a, b = b, a
	}
	return uuid.NewSHA1(riskNamespace, []byte(string(kind)+"|"+a+"|"+b)).String()
}

func affected(en *entry) types.AffectedEvent {
	ae := types.AffectedEvent{
		ID:          en.event.ID,
		DisplayName: en.event.DisplayName(),
		Date:        en.first().Format(schedule.DateLayout),
		Type:        string(en.event.Kind),
	}
	if en.window != nil {
		ae.Time = en.window.Start.Format(schedule.ClockLayout)
	} else {
		ae.Time = strings.TrimSpace(en.event.StartTime)
	}
	return ae
}

// sharedDay returns the first calendar day both entries occupy.
func sharedDay(a, b *entry) time.Time {
	for _, da := range a.days {
		for _, db := range b.days {
			if da.Equal(db) {
				return da
			}
		}
	}
	return a.first()
}
