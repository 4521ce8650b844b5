package domain

import (
	"fmt"
	"math"
	"time"
)

// ScoringWeights are the convex weights of the four priority sub-scores.
// They must sum to 1.0.
type ScoringWeights struct {
	Urgency    float64
	Importance float64
	Staleness  float64
	Type       float64
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Urgency:    0.4,
		Importance: 0.3,
		Staleness:  0.2,
		Type:       0.1,
	}
}

// UserProfile holds the single user's scheduling preferences.
type UserProfile struct {
	ID               string
	StrategicPillars []string

	// DayStart/DayEnd are HH:MM local times bounding the schedulable day.
	DayStart string
	DayEnd   string

	// DefaultBufferMin seeds the routine buffer when the wellness service
	// offers no recommendation. BufferStepMin is the synthetic low-energy
	// step length, kept in the 10-20 minute policy band.
	DefaultBufferMin int
	BufferStepMin    int

	Weights ScoringWeights
}

func DefaultProfile() UserProfile {
	return UserProfile{
		ID:               "default",
		DayStart:         "07:00",
		DayEnd:           "22:00",
		DefaultBufferMin: 30,
		BufferStepMin:    15,
		Weights:          DefaultScoringWeights(),
	}
}

// Validate checks the profile before persisting: weights must sum to 1.0
// within a small tolerance and both day bounds must be HH:MM times.
func (p *UserProfile) Validate() error {
	sum := p.Weights.Urgency + p.Weights.Importance + p.Weights.Staleness + p.Weights.Type
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.3f", sum)
	}
	if p.Weights.Urgency < 0 || p.Weights.Importance < 0 || p.Weights.Staleness < 0 || p.Weights.Type < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	for _, clock := range []string{p.DayStart, p.DayEnd} {
		if _, err := time.Parse("15:04", clock); err != nil {
			return fmt.Errorf("invalid clock time %q", clock)
		}
	}
	if p.DefaultBufferMin < 0 {
		return fmt.Errorf("default buffer must be non-negative")
	}
	return nil
}

// IsStrategic reports whether the pillar is on the strategic list.
func (p *UserProfile) IsStrategic(pillar string) bool {
	for _, s := range p.StrategicPillars {
		if s == pillar {
			return true
		}
	}
	return false
}
