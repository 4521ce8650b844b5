package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ebrandel/tempo/internal/domain"
)

// GoogleSource reads fixed events from a single Google Calendar.
type GoogleSource struct {
	srv        *gcal.Service
	calendarID string
	timeout    time.Duration
}

// NewGoogleSource authenticates against the Google Calendar API and
// resolves the configured calendar name to its ID. The calendar name
// "primary" maps to the account's primary calendar without a list lookup.
func NewGoogleSource(ctx context.Context, cfg Config) (*GoogleSource, error) {
	client, err := oauthClient(ctx, cfg.ConfigDir, []string{gcal.CalendarReadonlyScope})
	if err != nil {
		return nil, err
	}

	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}

	calendarID := "primary"
	if cfg.CalendarName != "" && cfg.CalendarName != "primary" {
		calendarID, err = resolveCalendarID(srv, cfg.CalendarName)
		if err != nil {
			return nil, err
		}
	}

	return &GoogleSource{
		srv:        srv,
		calendarID: calendarID,
		timeout:    time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, nil
}

func resolveCalendarID(srv *gcal.Service, name string) (string, error) {
	list, err := srv.CalendarList.List().Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range list.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar %q not found", name)
}

// Events lists the calendar's timed events for the given day, expanded
// to single instances and ordered by start. All-day events carry no
// clock time and are skipped.
func (g *GoogleSource) Events(ctx context.Context, date time.Time) ([]domain.FixedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	events, err := g.srv.Events.List(g.calendarID).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	return mapEvents(events.Items), nil
}

func mapEvents(items []*gcal.Event) []domain.FixedEvent {
	var out []domain.FixedEvent
	for _, item := range items {
		if item.Start == nil || item.Start.DateTime == "" || item.End == nil || item.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil || !end.After(start) {
			continue
		}
		out = append(out, domain.FixedEvent{
			ID:    item.Id,
			Title: item.Summary,
			Start: start,
			End:   end,
		})
	}
	return out
}
