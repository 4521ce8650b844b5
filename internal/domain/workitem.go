package domain

import "time"

type WorkItem struct {
	ID       string
	Title    string
	Category string
	Tags     []string

	EstimateMin  int
	DueDate      *time.Time
	Pillar       string
	ContractType ContractType
	Status       WorkItemStatus

	// ActualMin is only meaningful once Status is done.
	ActualMin   int
	LastTouched time.Time
	CompletedAt *time.Time
	ArchivedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch records that the item was worked with, feeding the staleness sub-score.
func (w *WorkItem) Touch(now time.Time) {
	w.LastTouched = now
	w.UpdatedAt = now
}

// DaysSinceTouched returns whole days since the item was last touched.
// Falls back to CreatedAt when the item was never touched.
func (w *WorkItem) DaysSinceTouched(now time.Time) int {
	ref := w.LastTouched
	if ref.IsZero() {
		ref = w.CreatedAt
	}
	days := int(now.Sub(ref).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// SharedTags counts tags the item has in common with the given set.
func (w *WorkItem) SharedTags(tags []string) int {
	if len(w.Tags) == 0 || len(tags) == 0 {
		return 0
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	n := 0
	for _, t := range w.Tags {
		if set[t] {
			n++
		}
	}
	return n
}
