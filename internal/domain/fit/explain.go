package fit

import (
	"fmt"
	"strings"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

func (a assessment) name() string {
	if n := strings.TrimSpace(a.candidate.Name); n != "" {
		return n
	}
	return a.candidate.ID
}

// explain renders a fixed template so identical inputs give identical text.
func (a assessment) explain() string {
	var head string
	switch {
	case a.label == types.TightSchedule && a.conflicts > 0:
		head = fmt.Sprintf("%s conflicts with %s.", a.name(), plural(a.conflicts, "scheduled event"))
	case a.label == types.TightSchedule:
		head = fmt.Sprintf("%s falls in a busy stretch of the schedule.", a.name())
	case a.label == types.TravelHeavy:
		head = fmt.Sprintf("%s requires significant travel.", a.name())
	default:
		head = fmt.Sprintf("%s is a good fit.", a.name())
	}

	rating := "Rating difference unknown"
	if a.ratingDelta != nil {
		rating = fmt.Sprintf("Rating difference %.1f", *a.ratingDelta)
	}
	distance := "distance unknown"
	if a.miles != nil {
		distance = fmt.Sprintf("%.0f miles from home", *a.miles)
	}
	nearby := "no proposed date"
	if a.dated {
		nearby = fmt.Sprintf("%s within %d days", plural(a.nearby, "scheduled event"), a.cfg.NearbyWindowDays)
	}
	return fmt.Sprintf("%s %s, %s, %s.", head, rating, distance, nearby)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
