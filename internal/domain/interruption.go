package domain

import "time"

// Interruption records one pause episode of a running routine.
// A routine has at most one open interruption at a time.
type Interruption struct {
	ID          string
	RoutineID   string
	Description string

	StartedAt          time.Time
	EndedAt            *time.Time
	BufferAvailableMin int

	// DelayMin is max(0, timeSpent - bufferAvailable), set on resolve.
	DelayMin int

	ChosenAction  TradeOffAction
	ChosenBlockID string
	SavedMin      int

	CreatedAt time.Time
}

func (i *Interruption) Open() bool {
	return i.EndedAt == nil
}

// TimeSpentMin returns whole minutes between start and end, rounding up so a
// 30-second errand still costs a minute of buffer.
func (i *Interruption) TimeSpentMin() int {
	if i.EndedAt == nil {
		return 0
	}
	d := i.EndedAt.Sub(i.StartedAt)
	min := int((d + time.Minute - 1) / time.Minute)
	if min < 0 {
		return 0
	}
	return min
}

// TradeOffOption is one structured adjustment offered after an interruption
// exceeds available buffer. The human picks exactly one; the engine never ranks
// them as "correct".
type TradeOffOption struct {
	ID        string
	Action    TradeOffAction
	BlockID   string
	StepTitle string
	SavedMin  int
}
