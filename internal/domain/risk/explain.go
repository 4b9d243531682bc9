package risk

import (
	"fmt"
	"time"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/schedule"
)

func label(en *entry) string {
	if en.window != nil {
		return fmt.Sprintf("%s (%s)", en.event.DisplayName(), en.window)
	}
	return en.event.DisplayName()
}

func explainOverlap(a, b *entry, day time.Time, overlap int) (string, string) {
	explanation := fmt.Sprintf("%s and %s on %s overlap by %d minutes.",
		label(a), label(b), day.Format(schedule.DateLayout), overlap)
	suggestion := fmt.Sprintf("Reschedule %s or %s so the games do not overlap.",
		a.event.DisplayName(), b.event.DisplayName())
	return explanation, suggestion
}

func explainTournamentBlock(a, b *entry, day time.Time) (string, string) {
	t, other := a, b
	if !t.event.IsTournament() {
		t, other = b, a
	}
	explanation := fmt.Sprintf("%s is scheduled on %s while the team is committed to %s.",
		label(other), day.Format(schedule.DateLayout), t.event.DisplayName())
	suggestion := fmt.Sprintf("Move %s outside the %s dates.",
		other.event.DisplayName(), t.event.DisplayName())
	return explanation, suggestion
}

func explainCloseStart(earlier, later *entry, day time.Time, gap int, cfg Config) (string, string) {
	var explanation string
	if gap < 0 {
		// Overlap small enough to fall under the hard conflict tolerance.
		explanation = fmt.Sprintf("%s and %s on %s overlap by %d minutes, within the %d-minute tolerance.",
			label(earlier), label(later), day.Format(schedule.DateLayout), -gap, cfg.HardConflictToleranceMinutes)
	} else {
		explanation = fmt.Sprintf("Only %d minutes between the end of %s and the start of %s on %s; at least %d minutes are recommended.",
			gap, label(earlier), label(later), day.Format(schedule.DateLayout), cfg.MinBufferMinutes)
	}
	earliest := earlier.window.End.Add(time.Duration(cfg.MinBufferMinutes) * time.Minute)
	var suggestion string
	if earliest.Day() != day.Day() || earliest.Month() != day.Month() {
		suggestion = fmt.Sprintf("Move %s to another day to leave at least %d minutes of rest.",
			later.event.DisplayName(), cfg.MinBufferMinutes)
	} else {
		suggestion = fmt.Sprintf("Start %s at %s or later to leave at least %d minutes of rest.",
			later.event.DisplayName(), earliest.Format(schedule.ClockLayout), cfg.MinBufferMinutes)
	}
	return explanation, suggestion
}

func explainTravel(a, b *entry, day time.Time, miles float64) (string, string) {
	explanation := fmt.Sprintf("%s at %s and %s at %s on %s are about %.0f miles apart.",
		a.event.DisplayName(), a.event.Location, b.event.DisplayName(), b.event.Location,
		day.Format(schedule.DateLayout), miles)
	suggestion := "Allow travel time between venues or move one event to another day."
	return explanation, suggestion
}
