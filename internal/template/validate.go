package template

import "fmt"

// ValidateSchema checks a TemplateSchema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *TemplateSchema) []error {
	var errs []error

	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if len(schema.Steps) == 0 {
		errs = append(errs, fmt.Errorf("at least one step is required"))
	}

	for i, day := range schema.Days {
		if _, err := ParseWeekday(day); err != nil {
			errs = append(errs, fmt.Errorf("days[%d]: %v", i, err))
		}
	}

	titles := map[string]bool{}
	for i, step := range schema.Steps {
		if step.Title == "" {
			errs = append(errs, fmt.Errorf("step[%d]: title is required", i))
		}
		if step.NominalMin <= 0 {
			errs = append(errs, fmt.Errorf("step[%d]: nominal_min must be positive", i))
		}
		if titles[step.Title] {
			errs = append(errs, fmt.Errorf("step[%d]: duplicate title %q", i, step.Title))
		}
		titles[step.Title] = true
	}

	return errs
}
