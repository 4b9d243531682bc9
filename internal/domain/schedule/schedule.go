// Package schedule holds the calendar, time-window and venue primitives shared
// by the risk evaluator and the fit scorer. All values are local wall-clock
// times; no timezone conversion is performed.
package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
)

// DateLayout is the calendar date format used by every event record.
const DateLayout = "2006-01-02"

// ClockLayout is the canonical time-of-day output format.
const ClockLayout = "15:04"

// maxSpanDays bounds a tournament span so a typo in an end date cannot
// expand into years of buckets.
const maxSpanDays = 62

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

// ParseDate parses a "2006-01-02" calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseClock parses a time of day and returns its offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	v := strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidTime, s)
}

// Window is a half-open [Start, End) interval of wall-clock time.
type Window struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the window length in whole minutes.
func (w Window) Minutes() int { return int(w.End.Sub(w.Start) / time.Minute) }

// String renders the window as "18:00-19:30".
func (w Window) String() string {
	return w.Start.Format(ClockLayout) + "-" + w.End.Format(ClockLayout)
}

// GameWindow builds the playing window of a game on date. An explicit end
// time wins over defaultDuration; the end must fall after the start.
func GameWindow(date time.Time, start, end string, defaultDuration time.Duration) (Window, error) {
	offset, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: date.Add(offset)}
	if strings.TrimSpace(end) == "" {
		w.End = w.Start.Add(defaultDuration)
		return w, nil
	}
	endOffset, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	w.End = date.Add(endOffset)
	if !w.End.After(w.Start) {
		return Window{}, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidWindow, end, start)
	}
	return w, nil
}

// OverlapMinutes returns how long a and b overlap, or 0 when they do not.
func OverlapMinutes(a, b Window) int {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// GapMinutes returns the time between the end of the earlier-starting window
// and the start of the other. Negative values mean the windows overlap.
func GapMinutes(a, b Window) int {
	if b.Start.Before(a.Start) {
		a, b = b, a
	}
	return int(b.Start.Sub(a.End) / time.Minute)
}

// Span returns every calendar day an event occupies. Games occupy one day;
// tournaments occupy their inclusive [Date, EndDate] range.
func Span(e model.Event) ([]time.Time, error) {
	start, err := ParseDate(e.Date)
	if err != nil {
		return nil, err
	}
	if !e.IsTournament() || strings.TrimSpace(e.EndDate) == "" {
		return []time.Time{start}, nil
	}
	end, err := ParseDate(e.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", ErrInvalidSpan, e.EndDate, e.Date)
	}
	days := DaysApart(start, end) + 1
	if days > maxSpanDays {
		return nil, fmt.Errorf("%w: %d days exceeds %d", ErrInvalidSpan, days, maxSpanDays)
	}
	out := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out, nil
}

// DaysApart returns the absolute number of calendar days between a and b.
func DaysApart(a, b time.Time) int {
	d := int(math.Round(b.Sub(a).Hours() / 24))
	if d < 0 {
		return -d
	}
	return d
}

// VenueKey normalizes a location for identity comparison. Empty locations
// produce an empty key.
func VenueKey(l model.Location) string {
	if l.IsZero() {
		return ""
	}
	parts := []string{l.Name, l.City, l.State, l.Country}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Join(strings.Fields(p), " "))
	}
	return strings.Join(parts, "|")
}

// SameVenue reports whether a and b name the same known place.
func SameVenue(a, b model.Location) bool {
	ka := VenueKey(a)
	return ka != "" && ka == VenueKey(b)
}

// VenueDistance estimates miles between two venues. The same venue is 0
// miles apart. Otherwise both distances from home must be known and the
// estimate is their difference, a lower bound on the true separation.
func VenueDistance(a, b model.Location) (float64, bool) {
	if SameVenue(a, b) {
		return 0, true
	}
	if a.DistanceFromHome == nil || b.DistanceFromHome == nil {
		return 0, false
	}
	da, db := *a.DistanceFromHome, *b.DistanceFromHome
	if math.IsNaN(da) || math.IsNaN(db) || da < 0 || db < 0 {
		return 0, false
	}
	return math.Abs(da - db), true
}

// EventDistance is VenueDistance for scheduled events. A home game with no
// distance is played at the team's base, 0 miles from home.
func EventDistance(a, b model.Event) (float64, bool) {
	return VenueDistance(homeBased(a), homeBased(b))
}

func homeBased(e model.Event) model.Location {
	loc := e.Location
	if e.IsHome && !e.IsTournament() && loc.DistanceFromHome == nil {
		zero := 0.0
		loc.DistanceFromHome = &zero
	}
	return loc
}
