// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// EventKind discriminates the scheduled items a team carries.
type EventKind string

const (
	KindGame       EventKind = "game"
	KindTournament EventKind = "tournament"
)

// IsValid reports whether k is a known kind.
func (k EventKind) IsValid() bool {
	switch k {
	case KindGame, KindTournament:
		return true
	default:
		return false
	}
}

// Location describes where an event is played. DistanceFromHome is supplied
// by upstream geocoding; nil means unknown.
type Location struct {
	Name             string   `json:"name,omitempty" yaml:"name,omitempty"` // rink or venue
	City             string   `json:"city,omitempty" yaml:"city,omitempty"`
	State            string   `json:"state,omitempty" yaml:"state,omitempty"`
	Country          string   `json:"country,omitempty" yaml:"country,omitempty"`
	DistanceFromHome *float64 `json:"distanceFromHome,omitempty" yaml:"distance_from_home,omitempty"` // miles
}

// IsZero reports whether no part of the location is known.
func (l Location) IsZero() bool {
	return strings.TrimSpace(l.Name) == "" &&
		strings.TrimSpace(l.City) == "" &&
		strings.TrimSpace(l.State) == "" &&
		strings.TrimSpace(l.Country) == ""
}

// String renders the location for human-readable text, e.g. "Rink X (Boston, MA)".
func (l Location) String() string {
	var place []string
	for _, p := range []string{l.City, l.State} {
		if s := strings.TrimSpace(p); s != "" {
			place = append(place, s)
		}
	}
	name := strings.TrimSpace(l.Name)
	switch {
	case name != "" && len(place) > 0:
		return fmt.Sprintf("%s (%s)", name, strings.Join(place, ", "))
	case name != "":
		return name
	case len(place) > 0:
		return strings.Join(place, ", ")
	default:
		return "unknown venue"
	}
}

// Event is a game or tournament on a team's schedule. Dates and times are
// kept as received (local, "2006-01-02" and "15:04") and parsed by the
// engines so a single malformed row only affects its own comparisons.
type Event struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      EventKind `json:"kind" yaml:"kind"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Date      string    `json:"date" yaml:"date"`
	StartTime string    `json:"startTime,omitempty" yaml:"start_time,omitempty"`
	EndTime   string    `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	EndDate   string    `json:"endDate,omitempty" yaml:"end_date,omitempty"` // tournaments only
	Location  Location  `json:"location" yaml:"location"`
	IsHome    bool      `json:"isHome,omitempty" yaml:"is_home,omitempty"` // games only
}

// IsTournament reports whether the event is a tournament block.
func (e Event) IsTournament() bool { return e.Kind == KindTournament }

// IsAway reports whether the team travels for the event. Tournaments always count as away.
func (e Event) IsAway() bool { return e.IsTournament() || !e.IsHome }

// DisplayName returns the event name, falling back to kind and id.
func (e Event) DisplayName() string {
	if n := strings.TrimSpace(e.Name); n != "" {
		return n
	}
	if e.IsTournament() {
		return "Tournament " + e.ID
	}
	return "Game " + e.ID
}
