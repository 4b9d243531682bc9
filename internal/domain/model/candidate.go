package model

// CandidateKind separates opponent teams from tournaments offered to a team.
type CandidateKind string

const (
	CandidateOpponent   CandidateKind = "opponent"
	CandidateTournament CandidateKind = "tournament"
)

// Team is the profile of the user's own team.
type Team struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
	Rating *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// Candidate is an opponent or tournament being considered. Date fields follow
// Event conventions; an opponent without a proposed date has no schedule window.
type Candidate struct {
	ID        string        `json:"id" yaml:"id"`
	Kind      CandidateKind `json:"kind" yaml:"kind"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Rating    *float64      `json:"rating,omitempty" yaml:"rating,omitempty"`
	Date      string        `json:"date,omitempty" yaml:"date,omitempty"`
	EndDate   string        `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	StartTime string        `json:"startTime,omitempty" yaml:"start_time,omitempty"`
	Location  Location      `json:"location" yaml:"location"`
}

// AsEvent projects the candidate onto the schedule event model so it can be
// compared against existing events with the same primitives.
func (c Candidate) AsEvent() Event {
	kind := KindGame
	if c.Kind == CandidateTournament {
		kind = KindTournament
	}
	return Event{
		ID:        c.ID,
		Kind:      kind,
		Name:      c.Name,
		Date:      c.Date,
		EndDate:   c.EndDate,
		StartTime: c.StartTime,
		Location:  c.Location,
	}
}

// Float64 returns a pointer to v, convenient for optional ratings and distances.
func Float64(v float64) *float64 { return &v }
