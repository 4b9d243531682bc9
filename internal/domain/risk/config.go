package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

// Default thresholds.
const (
	DefaultMinBufferMinutes             = 90
	DefaultTravelRiskDistanceMiles      = 50.0
	DefaultHardConflictToleranceMinutes = 0
	DefaultGameDurationMinutes          = 90
	DefaultCloseStartSeverity           = types.SeverityWarning
	DefaultTravelRiskSeverity           = types.SeverityWarning
	DefaultTournamentBlocking           = true
)

// Config tunes one evaluation.
type Config struct {
	// MinBufferMinutes is the smallest acceptable gap between the end of one
	// same-day game and the start of the next.
	MinBufferMinutes int `koanf:"min_buffer_minutes" json:"minBufferMinutes" yaml:"min_buffer_minutes"`
	// TravelRiskDistanceMiles flags same-day venues at least this far apart.
	TravelRiskDistanceMiles float64 `koanf:"travel_risk_distance_miles" json:"travelRiskDistanceMiles" yaml:"travel_risk_distance_miles"`
	// HardConflictToleranceMinutes is the overlap allowed before two games
	// are a hard conflict. 0 means any overlap is hard.
	HardConflictToleranceMinutes int `koanf:"hard_conflict_tolerance_minutes" json:"hardConflictToleranceMinutes" yaml:"hard_conflict_tolerance_minutes"`
	// DefaultGameDurationMinutes sizes a game window when no end time is given.
	DefaultGameDurationMinutes int `koanf:"default_game_duration_minutes" json:"defaultGameDurationMinutes" yaml:"default_game_duration_minutes"`

	CloseStartSeverity types.Severity `koanf:"close_start_severity" json:"closeStartSeverity" yaml:"close_start_severity"`
	TravelRiskSeverity types.Severity `koanf:"travel_risk_severity" json:"travelRiskSeverity" yaml:"travel_risk_severity"`

	// TournamentBlocking makes any event sharing a day with a tournament a
	// hard conflict.
	TournamentBlocking bool `koanf:"tournament_blocking" json:"tournamentBlocking" yaml:"tournament_blocking"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinBufferMinutes:             DefaultMinBufferMinutes,
		TravelRiskDistanceMiles:      DefaultTravelRiskDistanceMiles,
		HardConflictToleranceMinutes: DefaultHardConflictToleranceMinutes,
		DefaultGameDurationMinutes:   DefaultGameDurationMinutes,
		CloseStartSeverity:           DefaultCloseStartSeverity,
		TravelRiskSeverity:           DefaultTravelRiskSeverity,
		TournamentBlocking:           DefaultTournamentBlocking,
	}
}

// Validate rejects thresholds that would produce meaningless results.
func (c Config) Validate() error {
	switch {
	case c.MinBufferMinutes < 0:
		return fmt.Errorf("%w: min_buffer_minutes must be >= 0, got %d", ErrInvalidConfig, c.MinBufferMinutes)
	case c.TravelRiskDistanceMiles < 0 || math.IsNaN(c.TravelRiskDistanceMiles):
		return fmt.Errorf("%w: travel_risk_distance_miles must be >= 0, got %v", ErrInvalidConfig, c.TravelRiskDistanceMiles)
	case c.HardConflictToleranceMinutes < 0:
		return fmt.Errorf("%w: hard_conflict_tolerance_minutes must be >= 0, got %d", ErrInvalidConfig, c.HardConflictToleranceMinutes)
	case c.DefaultGameDurationMinutes <= 0:
		return fmt.Errorf("%w: default_game_duration_minutes must be > 0, got %d", ErrInvalidConfig, c.DefaultGameDurationMinutes)
	case !c.CloseStartSeverity.IsValid():
		return fmt.Errorf("%w: unknown close_start_severity %q", ErrInvalidConfig, c.CloseStartSeverity)
	case !c.TravelRiskSeverity.IsValid():
		return fmt.Errorf("%w: unknown travel_risk_severity %q", ErrInvalidConfig, c.TravelRiskSeverity)
	}
	return nil
}

func (c Config) gameDuration() time.Duration {
	return time.Duration(c.DefaultGameDurationMinutes) * time.Minute
}
