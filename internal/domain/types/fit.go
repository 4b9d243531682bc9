package types

// FitLabel is the coarse suitability class of a candidate.
type FitLabel string

const (
	GoodFit       FitLabel = "Good Fit"
	TightSchedule FitLabel = "Tight Schedule"
	TravelHeavy   FitLabel = "Travel Heavy"
)

// String returns the string representation of the label.
func (l FitLabel) String() string { return string(l) }

// TournamentFitScores holds 0-100 sub-scores for a tournament candidate.
type TournamentFitScores struct {
	RatingFit            float64 `json:"ratingFit"`
	TravelScore          float64 `json:"travelScore"`
	ScheduleAvailability float64 `json:"scheduleAvailability"`
}

// TournamentFitEvaluation annotates one tournament candidate.
type TournamentFitEvaluation struct {
	CandidateID         string              `json:"candidateId"`
	FitLabel            FitLabel            `json:"fitLabel"`
	Explanation         string              `json:"explanation"`
	Scores              TournamentFitScores `json:"scores"`
	OverallScore        float64             `json:"overallScore"`
	HasScheduleConflict bool                `json:"hasScheduleConflict"`
	GamesNearby         int                 `json:"gamesNearby"`
}

// MatchScores holds 0-100 sub-scores for an opponent candidate.
type MatchScores struct {
	RatingFit             float64 `json:"ratingFit"`
	TravelScore           float64 `json:"travelScore"`
	ScheduleCompatibility float64 `json:"scheduleCompatibility"`
	Overall               float64 `json:"overall"`
}

// OpponentMatch annotates one opponent candidate.
type OpponentMatch struct {
	CandidateID         string      `json:"candidateId"`
	Scores              MatchScores `json:"scores"`
	FitLabel            FitLabel    `json:"fitLabel"`
	Explanation         string      `json:"explanation"`
	HasScheduleConflict bool        `json:"hasScheduleConflict"`
	GamesNearby         int         `json:"gamesNearby"`
}
