// Package calendar provides fixed-event sources for the routine builder.
// Events come either from a static file-free source (tests, offline use)
// or from Google Calendar.
package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

// EventSource yields the immovable commitments for a given day. All
// implementations return events sorted by start time.
type EventSource interface {
	Events(ctx context.Context, date time.Time) ([]domain.FixedEvent, error)
}

// StaticSource serves a fixed in-memory event list, filtered to the
// requested day. Used when no external calendar is configured.
type StaticSource struct {
	events []domain.FixedEvent
}

func NewStaticSource(events []domain.FixedEvent) *StaticSource {
	sorted := make([]domain.FixedEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })
	return &StaticSource{events: sorted}
}

func (s *StaticSource) Events(_ context.Context, date time.Time) ([]domain.FixedEvent, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var out []domain.FixedEvent
	for _, e := range s.events {
		if e.Start.Before(dayEnd) && e.End.After(dayStart) {
			out = append(out, e)
		}
	}
	return out, nil
}
