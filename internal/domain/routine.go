package domain

import "time"

// EstimateFlag is attached to a task block when historical actuals diverge
// from the declared estimate. The suggestion is surfaced, never silently applied.
type EstimateFlag struct {
	SuggestedMin int
	Confidence   float64
	Applied      bool
}

type Block struct {
	ID        string
	RoutineID string
	Kind      BlockKind
	Title     string

	Start       time.Time
	DurationMin int
	Optional    bool

	// WorkItemID is set for task blocks, StepName for template-derived blocks.
	WorkItemID string
	StepName   string

	EstimateFlag *EstimateFlag
	Skipped      bool
	OrderIndex   int
}

func (b Block) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMin) * time.Minute)
}

type DailyRoutine struct {
	ID         string
	Date       time.Time
	TemplateID string
	Status     RoutineStatus

	EnergyPct        int
	EnergyMultiplier float64
	BufferMin        int
	TotalPlannedMin  int

	Blocks []Block

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextFixedCommitment returns the first fixed event starting at or after t,
// or nil when none remains.
func (r *DailyRoutine) NextFixedCommitment(t time.Time) *Block {
	for i := range r.Blocks {
		b := &r.Blocks[i]
		if b.Kind == BlockFixedEvent && !b.Start.Before(t) {
			return b
		}
	}
	return nil
}

// BlockByID looks up a block by ID. Returns nil when absent.
func (r *DailyRoutine) BlockByID(id string) *Block {
	for i := range r.Blocks {
		if r.Blocks[i].ID == id {
			return &r.Blocks[i]
		}
	}
	return nil
}

// FixedEvent is an immovable calendar entry consumed from the calendar
// collaborator. Events handed to the builder must not overlap.
type FixedEvent struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two events share any time.
func (e FixedEvent) Overlaps(other FixedEvent) bool {
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

// EnergyContext is the wellness collaborator's answer for one day.
// EnergyPercentage is on a 0-200 scale where 100 is baseline.
type EnergyContext struct {
	EnergyPercentage     int
	CyclePhase           string
	RecommendedBufferMin int
}

// DefaultEnergyContext is the fallback when the wellness service is
// unavailable: baseline energy, no cycle data.
func DefaultEnergyContext(bufferMin int) EnergyContext {
	return EnergyContext{EnergyPercentage: 100, RecommendedBufferMin: bufferMin}
}
