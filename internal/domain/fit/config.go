package fit

import (
	"fmt"
	"math"
	"time"
)

// Default weights and curve parameters.
const (
	DefaultRatingWeight        = 0.4
	DefaultTravelWeight        = 0.3
	DefaultScheduleWeight      = 0.3
	DefaultRatingDecayPerPoint = 15.0
	DefaultMaxTravelMiles      = 300.0
	DefaultNearbyWindowDays    = 2
	DefaultGameDurationMinutes = 90
)

// Label policy thresholds. These are fixed so labels stay comparable across
// deployments; only the scoring curve is tunable.
const (
	TightAvailabilityThreshold = 50.0
	TravelHeavyThreshold       = 40.0
	AcceptableRatingThreshold  = 50.0
	GoodFitThreshold           = 60.0
)

const (
	maxScore        = 100.0
	neutralScore    = 50.0
	conflictPenalty = 50.0
	nearbyPenalty   = 15.0
	weightTolerance = 0.001
)

// Config tunes the scoring curve.
type Config struct {
	RatingWeight   float64 `koanf:"rating_weight" json:"ratingWeight" yaml:"rating_weight"`
	TravelWeight   float64 `koanf:"travel_weight" json:"travelWeight" yaml:"travel_weight"`
	ScheduleWeight float64 `koanf:"schedule_weight" json:"scheduleWeight" yaml:"schedule_weight"`
	// RatingDecayPerPoint is how many points ratingFit loses per rating point of difference.
	RatingDecayPerPoint float64 `koanf:"rating_decay_per_point" json:"ratingDecayPerPoint" yaml:"rating_decay_per_point"`
	// MaxTravelMiles is the distance at which travelScore reaches 0.
	MaxTravelMiles float64 `koanf:"max_travel_miles" json:"maxTravelMiles" yaml:"max_travel_miles"`
	// NearbyWindowDays counts existing events within this many days of the candidate.
	NearbyWindowDays    int `koanf:"nearby_window_days" json:"nearbyWindowDays" yaml:"nearby_window_days"`
	GameDurationMinutes int `koanf:"game_duration_minutes" json:"gameDurationMinutes" yaml:"game_duration_minutes"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		RatingWeight:        DefaultRatingWeight,
		TravelWeight:        DefaultTravelWeight,
		ScheduleWeight:      DefaultScheduleWeight,
		RatingDecayPerPoint: DefaultRatingDecayPerPoint,
		MaxTravelMiles:      DefaultMaxTravelMiles,
		NearbyWindowDays:    DefaultNearbyWindowDays,
		GameDurationMinutes: DefaultGameDurationMinutes,
	}
}

// Validate checks that weights are non-negative and sum to 1.
func (c Config) Validate() error {
	weights := []struct {
		name string
		w    float64
	}{
		{"rating_weight", c.RatingWeight},
		{"travel_weight", c.TravelWeight},
		{"schedule_weight", c.ScheduleWeight},
	}
	for _, w := range weights {
		if w.w < 0 || math.IsNaN(w.w) {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, w.name, w.w)
		}
	}
	if sum := c.RatingWeight + c.TravelWeight + c.ScheduleWeight; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1, got %.3f", ErrInvalidConfig, sum)
	}
	switch {
	case !(c.RatingDecayPerPoint > 0):
		return fmt.Errorf("%w: rating_decay_per_point must be > 0, got %v", ErrInvalidConfig, c.RatingDecayPerPoint)
	case !(c.MaxTravelMiles > 0):
		return fmt.Errorf("%w: max_travel_miles must be > 0, got %v", ErrInvalidConfig, c.MaxTravelMiles)
	case c.NearbyWindowDays < 0:
		return fmt.Errorf("%w: nearby_window_days must be >= 0, got %d", ErrInvalidConfig, c.NearbyWindowDays)
	case c.GameDurationMinutes <= 0:
		return fmt.Errorf("%w: game_duration_minutes must be > 0, got %d", ErrInvalidConfig, c.GameDurationMinutes)
	}
	return nil
}

func (c Config) gameDuration() time.Duration {
	return time.Duration(c.GameDurationMinutes) * time.Minute
}
