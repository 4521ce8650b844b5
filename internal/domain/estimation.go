package domain

import "time"

// EstimationSample is one completed work item's (estimated, actual) pair.
type EstimationSample struct {
	ID           string
	Category     string
	Tags         []string
	EstimatedMin int
	ActualMin    int
	RecordedAt   time.Time
}

// EstimationPattern aggregates samples for one category. Patterns below
// MinPatternSamples completions are stored but never consulted.
type EstimationPattern struct {
	Category string
	Tags     []string

	SampleCount      int
	MeanEstimatedMin float64
	MeanActualMin    float64
	StdevActualMin   float64

	Tendency   Tendency
	Confidence float64

	UpdatedAt time.Time
}

const (
	// MinPatternSamples is the completion count below which CheckEstimate
	// always answers insufficient-data.
	MinPatternSamples = 5

	// ConfidenceSaturation is the sample count at which confidence reaches 1.0.
	ConfidenceSaturation = 10

	// DeviationTolerance is the relative band, against the historical actual
	// mean, within which a declared estimate counts as accurate.
	DeviationTolerance = 0.20
)
