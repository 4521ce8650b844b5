package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now.Add(2 * time.Hour), "Today"},
		{"tomorrow", now.AddDate(0, 0, 1), "Tomorrow"},
		{"yesterday", now.AddDate(0, 0, -1), "Yesterday"},
		{"in days", now.AddDate(0, 0, 5), "In 5d"},
		{"in weeks", now.AddDate(0, 0, 21), "In 3w"},
		{"days ago", now.AddDate(0, 0, -6), "6d ago"},
		{"weeks ago", now.AddDate(0, 0, -28), "4w ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		min  int
		want string
	}{
		{5, "5m"},
		{45, "45m"},
		{60, "1h"},
		{65, "1h05m"},
		{150, "2h30m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.min))
	}
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "a1b2c3d4", TruncID("a1b2c3d4-0000-1111-2222-333344445555"))
	assert.Equal(t, "short", TruncID("short"))
}

func TestClockRange(t *testing.T) {
	start := time.Date(2026, 4, 2, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, "07:00-07:20", ClockRange(start, 20))
	assert.Equal(t, "07:00-08:30", ClockRange(start, 90))
}
