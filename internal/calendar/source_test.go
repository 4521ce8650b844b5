package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/ebrandel/tempo/internal/domain"
)

func TestStaticSource_FiltersToDay(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	events := []domain.FixedEvent{
		{ID: "e2", Title: "standup", Start: day.Add(11 * time.Hour), End: day.Add(11*time.Hour + 30*time.Minute)},
		{ID: "e1", Title: "dentist", Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
		{ID: "e3", Title: "tomorrow", Start: day.Add(26 * time.Hour), End: day.Add(27 * time.Hour)},
	}

	src := NewStaticSource(events)
	got, err := src.Events(context.Background(), day)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
}

func TestStaticSource_EmptyDay(t *testing.T) {
	src := NewStaticSource(nil)
	got, err := src.Events(context.Background(), time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMapEvents_SkipsAllDayAndMalformed(t *testing.T) {
	items := []*gcal.Event{
		{
			Id:      "timed",
			Summary: "design review",
			Start:   &gcal.EventDateTime{DateTime: "2026-04-02T14:00:00Z"},
			End:     &gcal.EventDateTime{DateTime: "2026-04-02T15:00:00Z"},
		},
		{
			Id:      "all-day",
			Summary: "conference",
			Start:   &gcal.EventDateTime{Date: "2026-04-02"},
			End:     &gcal.EventDateTime{Date: "2026-04-03"},
		},
		{
			Id:      "bad-time",
			Summary: "broken",
			Start:   &gcal.EventDateTime{DateTime: "not-a-time"},
			End:     &gcal.EventDateTime{DateTime: "2026-04-02T15:00:00Z"},
		},
		{
			Id:      "inverted",
			Summary: "ends before it starts",
			Start:   &gcal.EventDateTime{DateTime: "2026-04-02T16:00:00Z"},
			End:     &gcal.EventDateTime{DateTime: "2026-04-02T15:00:00Z"},
		},
	}

	got := mapEvents(items)

	require.Len(t, got, 1)
	assert.Equal(t, "timed", got[0].ID)
	assert.Equal(t, "design review", got[0].Title)
	assert.Equal(t, 14, got[0].Start.Hour())
	assert.Equal(t, 60, int(got[0].End.Sub(got[0].Start).Minutes()))
}

func TestLoadConfig_ReadsEnv(t *testing.T) {
	t.Setenv("TEMPO_CALENDAR_ENABLED", "true")
	t.Setenv("TEMPO_CALENDAR_NAME", "Work")
	t.Setenv("TEMPO_CALENDAR_TIMEOUT_MS", "1500")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "Work", cfg.CalendarName)
	assert.Equal(t, 1500, cfg.TimeoutMs)
}
