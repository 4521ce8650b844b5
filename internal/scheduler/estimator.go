package scheduler

import (
	"math"
	"sort"

	"github.com/ebrandel/tempo/internal/domain"
)

type VerdictKind string

const (
	VerdictInsufficientData VerdictKind = "insufficient_data"
	VerdictWithinTolerance  VerdictKind = "within_tolerance"
	VerdictDeviationFlag    VerdictKind = "deviation_flag"
)

type MatchKind string

const (
	MatchExactCategory MatchKind = "exact_category"
	MatchTagOverlap    MatchKind = "tag_overlap"
	MatchNone          MatchKind = "none"
)

// Verdict is the estimation learner's answer for a candidate item. The
// deviation ratio is computed against the historical actual mean, so a flag
// always points toward the empirically observed duration.
type Verdict struct {
	Kind            VerdictKind
	MatchedCategory string
	MatchedBy       MatchKind
	SharedTags      int
	SampleCount     int
	SuggestedMin    int
	Confidence      float64
	DeviationRatio  float64
}

// PatternStats is the aggregate over one category's samples.
type PatternStats struct {
	Count         int
	MeanEstimated float64
	MeanActual    float64
	StdevActual   float64
}

// ComputeStats aggregates samples into count, means and the sample standard
// deviation of actual minutes.
func ComputeStats(samples []domain.EstimationSample) PatternStats {
	stats := PatternStats{Count: len(samples)}
	if stats.Count == 0 {
		return stats
	}

	var sumEst, sumAct float64
	for _, s := range samples {
		sumEst += float64(s.EstimatedMin)
		sumAct += float64(s.ActualMin)
	}
	stats.MeanEstimated = sumEst / float64(stats.Count)
	stats.MeanActual = sumAct / float64(stats.Count)

	if stats.Count > 1 {
		var ss float64
		for _, s := range samples {
			d := float64(s.ActualMin) - stats.MeanActual
			ss += d * d
		}
		stats.StdevActual = math.Sqrt(ss / float64(stats.Count-1))
	}
	return stats
}

// ClassifyTendency derives the estimate bias from the aggregate means using
// the tolerance band against the actual mean.
func ClassifyTendency(meanEstimated, meanActual float64) domain.Tendency {
	if meanActual <= 0 {
		return domain.TendencyAccurate
	}
	ratio := math.Abs(meanActual-meanEstimated) / meanActual
	if ratio <= domain.DeviationTolerance {
		return domain.TendencyAccurate
	}
	if meanActual > meanEstimated {
		return domain.TendencyUnderestimates
	}
	return domain.TendencyOverestimates
}

// Confidence saturates at 1.0 once ConfidenceSaturation samples exist.
func Confidence(sampleCount int) float64 {
	return math.Min(float64(sampleCount)/float64(domain.ConfidenceSaturation), 1.0)
}

// BuildPattern aggregates a category's samples into its pattern row. Tags are
// the union of sample tags, kept sorted for deterministic matching.
func BuildPattern(category string, samples []domain.EstimationSample) domain.EstimationPattern {
	stats := ComputeStats(samples)

	tagSet := make(map[string]bool)
	for _, s := range samples {
		for _, t := range s.Tags {
			tagSet[t] = true
		}
	}
	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	return domain.EstimationPattern{
		Category:         category,
		Tags:             tags,
		SampleCount:      stats.Count,
		MeanEstimatedMin: stats.MeanEstimated,
		MeanActualMin:    stats.MeanActual,
		StdevActualMin:   stats.StdevActual,
		Tendency:         ClassifyTendency(stats.MeanEstimated, stats.MeanActual),
		Confidence:       Confidence(stats.Count),
	}
}

// MatchPattern finds the pattern for an item: exact category first, then the
// pattern sharing the most tags (at least one), ties broken lexically by
// category so matching stays deterministic.
func MatchPattern(item domain.WorkItem, patterns []domain.EstimationPattern) (*domain.EstimationPattern, MatchKind, int) {
	for i := range patterns {
		if item.Category != "" && patterns[i].Category == item.Category {
			return &patterns[i], MatchExactCategory, 0
		}
	}

	var best *domain.EstimationPattern
	bestShared := 0
	for i := range patterns {
		shared := item.SharedTags(patterns[i].Tags)
		if shared < 1 {
			continue
		}
		if shared > bestShared || (shared == bestShared && best != nil && patterns[i].Category < best.Category) {
			best = &patterns[i]
			bestShared = shared
		}
	}
	if best == nil {
		return nil, MatchNone, 0
	}
	return best, MatchTagOverlap, bestShared
}

// CheckEstimate compares an item's declared estimate against the matched
// pattern. Below the minimum sample threshold the answer is always
// insufficient-data, regardless of deviation magnitude.
func CheckEstimate(item domain.WorkItem, patterns []domain.EstimationPattern) Verdict {
	pattern, matchedBy, shared := MatchPattern(item, patterns)
	if pattern == nil || pattern.SampleCount < domain.MinPatternSamples || pattern.MeanActualMin <= 0 {
		return Verdict{Kind: VerdictInsufficientData, MatchedBy: matchedBy, SharedTags: shared}
	}

	ratio := math.Abs(pattern.MeanActualMin-float64(item.EstimateMin)) / pattern.MeanActualMin
	verdict := Verdict{
		MatchedCategory: pattern.Category,
		MatchedBy:       matchedBy,
		SharedTags:      shared,
		SampleCount:     pattern.SampleCount,
		Confidence:      pattern.Confidence,
		DeviationRatio:  ratio,
		SuggestedMin:    int(math.Round(pattern.MeanActualMin)),
	}
	if ratio <= domain.DeviationTolerance {
		verdict.Kind = VerdictWithinTolerance
		return verdict
	}
	verdict.Kind = VerdictDeviationFlag
	return verdict
}
