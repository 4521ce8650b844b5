package scheduler

import (
	"errors"
	"math"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

// ErrInvalidWorkItem is returned only when an item cannot be identified at
// all. Missing scoring fields degrade to baseline sub-scores instead.
var ErrInvalidWorkItem = errors.New("invalid work item: missing identifier")

type ScoreReasonCode string

const (
	ReasonOverdue         ScoreReasonCode = "OVERDUE"
	ReasonDueToday        ScoreReasonCode = "DUE_TODAY"
	ReasonDueSoon         ScoreReasonCode = "DUE_SOON"
	ReasonNoDueDate       ScoreReasonCode = "NO_DUE_DATE"
	ReasonStrategicPillar ScoreReasonCode = "STRATEGIC_PILLAR"
	ReasonStale           ScoreReasonCode = "STALE"
	ReasonFixedCommitment ScoreReasonCode = "FIXED_COMMITMENT"
	ReasonBaselineApplied ScoreReasonCode = "BASELINE_APPLIED"
)

type ScoreReason struct {
	Code    ScoreReasonCode
	Message string
}

// SubScores are the four normalized priority factors, each in [0,1].
type SubScores struct {
	Urgency    float64
	Importance float64
	Staleness  float64
	Type       float64
}

// PriorityScore is the derived, ephemeral scoring result for one work item.
// The composite is a convex combination of the sub-scores; rank bucket 1 is
// most urgent, 10 least.
type PriorityScore struct {
	WorkItemID string
	Sub        SubScores
	Composite  float64
	Rank       int
	Reasons    []ScoreReason
}

// ScoreWorkItem computes the composite priority for one item. Pure: callers
// persist the result if they want it, the item's raw fields stay the source
// of truth.
func ScoreWorkItem(item domain.WorkItem, now time.Time, profile domain.UserProfile) (PriorityScore, error) {
	if item.ID == "" {
		return PriorityScore{}, ErrInvalidWorkItem
	}

	result := PriorityScore{WorkItemID: item.ID}

	urgency, reason := scoreUrgency(item.DueDate, now)
	result.Sub.Urgency = urgency
	if reason != nil {
		result.Reasons = append(result.Reasons, *reason)
	}

	importance, reason := scoreImportance(item.Pillar, profile)
	result.Sub.Importance = importance
	if reason != nil {
		result.Reasons = append(result.Reasons, *reason)
	}

	staleness, reason := scoreStaleness(item.DaysSinceTouched(now))
	result.Sub.Staleness = staleness
	if reason != nil {
		result.Reasons = append(result.Reasons, *reason)
	}

	typeScore, reason := scoreType(item.ContractType)
	result.Sub.Type = typeScore
	if reason != nil {
		result.Reasons = append(result.Reasons, *reason)
	}

	w := profile.Weights
	result.Composite = w.Urgency*urgency + w.Importance*importance +
		w.Staleness*staleness + w.Type*typeScore
	result.Rank = rankBucket(result.Composite)
	return result, nil
}

// scoreUrgency is a step function of days until due. Overdue items pin at 1.0
// so growing lateness never lowers the composite.
func scoreUrgency(due *time.Time, now time.Time) (float64, *ScoreReason) {
	if due == nil {
		return 0.1, &ScoreReason{Code: ReasonNoDueDate, Message: "No due date"}
	}
	days := daysUntil(*due, now)
	switch {
	case days < 0:
		return 1.0, &ScoreReason{Code: ReasonOverdue, Message: "Past due"}
	case days == 0:
		return 0.95, &ScoreReason{Code: ReasonDueToday, Message: "Due today"}
	case days <= 2:
		return 0.90, &ScoreReason{Code: ReasonDueSoon, Message: "Due within two days"}
	case days <= 7:
		return 0.70, &ScoreReason{Code: ReasonDueSoon, Message: "Due this week"}
	case days <= 14:
		return 0.45, nil
	case days <= 30:
		return 0.25, nil
	default:
		return 0.1, nil
	}
}

func scoreImportance(pillar string, profile domain.UserProfile) (float64, *ScoreReason) {
	switch {
	case pillar == "":
		return 0.5, nil
	case profile.IsStrategic(pillar):
		return 1.0, &ScoreReason{Code: ReasonStrategicPillar, Message: "Belongs to a strategic pillar"}
	default:
		return 0.6, nil
	}
}

// scoreStaleness rewards surfacing items at risk of being forgotten.
func scoreStaleness(daysSinceTouched int) (float64, *ScoreReason) {
	switch {
	case daysSinceTouched >= 30:
		return 0.8, &ScoreReason{Code: ReasonStale, Message: "Untouched for a month"}
	case daysSinceTouched >= 14:
		return 0.6, &ScoreReason{Code: ReasonStale, Message: "Untouched for two weeks"}
	case daysSinceTouched >= 7:
		return 0.4, nil
	default:
		return 0.15, nil
	}
}

func scoreType(ct domain.ContractType) (float64, *ScoreReason) {
	switch ct {
	case domain.ContractFixed:
		return 1.0, &ScoreReason{Code: ReasonFixedCommitment, Message: "Fixed commitment"}
	case domain.ContractFlexible:
		return 0.7, nil
	case domain.ContractOngoing:
		return 0.4, nil
	default:
		// Unset contract type scores like ongoing work rather than failing.
		return 0.4, &ScoreReason{Code: ReasonBaselineApplied, Message: "No contract type, baseline applied"}
	}
}

// rankBucket discretizes a composite into 1 (most urgent) .. 10 (least).
func rankBucket(composite float64) int {
	rank := int(math.Ceil((1 - composite) * 10))
	if rank < 1 {
		return 1
	}
	if rank > 10 {
		return 10
	}
	return rank
}

// daysUntil counts calendar days between now and the due date, ignoring time
// of day so "due today" holds until midnight.
func daysUntil(due, now time.Time) int {
	d := startOfDay(due)
	n := startOfDay(now)
	return int(d.Sub(n).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
