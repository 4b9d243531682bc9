// Package types contains the result records produced by the evaluation
// engines. They carry no behavior beyond enum helpers and serialize to JSON
// for the presentation layer.
package types

// RiskType classifies a detected scheduling risk.
type RiskType string

const (
	HardTimeConflict  RiskType = "HARD_TIME_CONFLICT"
	CloseStartWarning RiskType = "CLOSE_START_WARNING"
	SameDayTravelRisk RiskType = "SAME_DAY_TRAVEL_RISK"
)

// String returns the string representation of the risk type.
func (r RiskType) String() string { return string(r) }

// IsValid returns true if the risk type is a known value.
func (r RiskType) IsValid() bool {
	switch r {
	case HardTimeConflict, CloseStartWarning, SameDayTravelRisk:
		return true
	default:
		return false
	}
}

// Severity ranks risks for display.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// String returns the string representation of the severity.
func (s Severity) String() string { return string(s) }

// IsValid returns true if the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Rank orders severities: error=0, warning=1, info=2. Unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// AffectedEvent is the display subset of an event implicated in a risk.
type AffectedEvent struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Type        string `json:"type"`
}

// ScheduleRisk is one detected condition between two or more events.
type ScheduleRisk struct {
	ID             string          `json:"id"`
	RiskType       RiskType        `json:"riskType"`
	Severity       Severity        `json:"severity"`
	AffectedEvents []AffectedEvent `json:"affectedEvents"`
	Explanation    string          `json:"explanation"`
	Suggestion     string          `json:"suggestion"`
}

// SeverityCounts tallies risks per severity.
type SeverityCounts struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

// Total returns the sum of all counts.
func (c SeverityCounts) Total() int { return c.Error + c.Warning + c.Info }

// SkippedComparison records an event or pair left out because its data could
// not be interpreted.
type SkippedComparison struct {
	EventIDs []string `json:"eventIds"`
	Reason   string   `json:"reason"`
}

// ScheduleRiskEvaluation is the aggregate result of one evaluation call.
// TotalRisks == len(Risks) == CountBySeverity.Total().
type ScheduleRiskEvaluation struct {
	Risks           []ScheduleRisk      `json:"risks"`
	TotalRisks      int                 `json:"totalRisks"`
	CountBySeverity SeverityCounts      `json:"countBySeverity"`
	Skipped         []SkippedComparison `json:"skipped,omitempty"`
}
