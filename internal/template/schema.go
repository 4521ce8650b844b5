// Package template loads routine templates from YAML files and converts
// them into domain templates.
package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

// TemplateSchema is the top-level YAML template structure.
type TemplateSchema struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Days        []string     `yaml:"days,omitempty"`
	Steps       []StepConfig `yaml:"steps"`
}

type StepConfig struct {
	Title      string `yaml:"title"`
	NominalMin int    `yaml:"nominal_min"`
	Optional   bool   `yaml:"optional,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday resolves a day name like "monday" or "mon",
// case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

// ToDomain converts a validated schema into a domain template. The ID is
// left empty for the caller to assign.
func (s *TemplateSchema) ToDomain() (*domain.RoutineTemplate, error) {
	days := make([]time.Weekday, 0, len(s.Days))
	for _, name := range s.Days {
		d, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	steps := make([]domain.TemplateStep, 0, len(s.Steps))
	for _, step := range s.Steps {
		steps = append(steps, domain.TemplateStep{
			Name:       step.Title,
			NominalMin: step.NominalMin,
			Optional:   step.Optional,
		})
	}

	return &domain.RoutineTemplate{
		Name:  s.Name,
		Days:  days,
		Steps: steps,
	}, nil
}
