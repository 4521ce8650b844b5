package testutil

import (
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/google/uuid"
)

// Work item options
type WorkItemOption func(*domain.WorkItem)

func WithDueDate(d time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = &d
	}
}

func WithCategory(c string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Category = c
	}
}

func WithTags(tags ...string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Tags = tags
	}
}

func WithPillar(p string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Pillar = p
	}
}

func WithContractType(c domain.ContractType) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.ContractType = c
	}
}

func WithStatus(s domain.WorkItemStatus) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithEstimate(min int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.EstimateMin = min
	}
}

func WithLastTouched(t time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.LastTouched = t
	}
}

func NewTestWorkItem(title string, opts ...WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC()
	w := &domain.WorkItem{
		ID:           uuid.New().String(),
		Title:        title,
		Category:     "general",
		EstimateMin:  30,
		ContractType: domain.ContractFlexible,
		Status:       domain.WorkItemPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Template options
type TemplateOption func(*domain.RoutineTemplate)

func WithDays(days ...time.Weekday) TemplateOption {
	return func(t *domain.RoutineTemplate) {
		t.Days = days
	}
}

func WithSteps(steps ...domain.TemplateStep) TemplateOption {
	return func(t *domain.RoutineTemplate) {
		t.Steps = steps
	}
}

func NewTestTemplate(name string, opts ...TemplateOption) *domain.RoutineTemplate {
	now := time.Now().UTC()
	t := &domain.RoutineTemplate{
		ID:   uuid.New().String(),
		Name: name,
		Steps: []domain.TemplateStep{
			{Name: "stretch", NominalMin: 20},
			{Name: "breakfast", NominalMin: 30},
			{Name: "journal", NominalMin: 10, Optional: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Routine options
type RoutineOption func(*domain.DailyRoutine)

func WithRoutineStatus(s domain.RoutineStatus) RoutineOption {
	return func(r *domain.DailyRoutine) {
		r.Status = s
	}
}

func WithBufferMin(min int) RoutineOption {
	return func(r *domain.DailyRoutine) {
		r.BufferMin = min
	}
}

func WithBlocks(blocks ...domain.Block) RoutineOption {
	return func(r *domain.DailyRoutine) {
		r.Blocks = blocks
	}
}

func NewTestRoutine(date time.Time, opts ...RoutineOption) *domain.DailyRoutine {
	now := time.Now().UTC()
	r := &domain.DailyRoutine{
		ID:               uuid.New().String(),
		Date:             date,
		Status:           domain.RoutinePending,
		EnergyPct:        100,
		EnergyMultiplier: 1.0,
		BufferMin:        30,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestBlock builds a block for the given routine with IDs assigned.
func NewTestBlock(routineID string, kind domain.BlockKind, title string, start time.Time, durationMin int) domain.Block {
	return domain.Block{
		ID:          uuid.New().String(),
		RoutineID:   routineID,
		Kind:        kind,
		Title:       title,
		Start:       start,
		DurationMin: durationMin,
	}
}
