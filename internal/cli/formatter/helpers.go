package formatter

import (
	"fmt"
	"math"
	"time"
)

// FormatMinutes renders a minute count as "45m" or "1h30m".
func FormatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	h := min / 60
	m := min % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// TruncID shortens a UUID for display.
func TruncID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// ClockRange renders a block's span as "07:00-07:20".
func ClockRange(start time.Time, durationMin int) string {
	end := start.Add(time.Duration(durationMin) * time.Minute)
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// RelativeDateFrom returns a human-friendly relative date string from a
// reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("%dw ago", -days/7)
	}
}

// RelativeDate returns RelativeDateFrom anchored at now.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}
