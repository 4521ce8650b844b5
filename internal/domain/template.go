package domain

import (
	"fmt"
	"time"
)

type TemplateStep struct {
	Name       string
	NominalMin int
	Optional   bool
}

// RoutineTemplate is a reusable ordered list of steps with the weekdays it
// applies to. Immutable while a routine built from it is executing.
type RoutineTemplate struct {
	ID    string
	Name  string
	Days  []time.Weekday
	Steps []TemplateStep

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo reports whether the template covers the given weekday.
// A template with no days listed applies every day.
func (t *RoutineTemplate) AppliesTo(d time.Weekday) bool {
	if len(t.Days) == 0 {
		return true
	}
	for _, day := range t.Days {
		if day == d {
			return true
		}
	}
	return false
}

func (t *RoutineTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("template %q has no steps", t.Name)
	}
	for i, s := range t.Steps {
		if s.Name == "" {
			return fmt.Errorf("template %q: step %d has no name", t.Name, i+1)
		}
		if s.NominalMin <= 0 {
			return fmt.Errorf("template %q: step %q must have a positive duration", t.Name, s.Name)
		}
	}
	return nil
}
