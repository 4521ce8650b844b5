package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/domain"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage routine templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateImportCmd(app),
		newTemplateNewCmd(app),
		newTemplateRemoveCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List routine templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Templates.List(context.Background())
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println(formatter.Dim("No templates. Create one with 'tempo template new' or import a directory."))
				return nil
			}

			headers := []string{"NAME", "DAYS", "STEPS", "NOMINAL"}
			rows := make([][]string, 0, len(templates))
			for _, t := range templates {
				total := 0
				for _, s := range t.Steps {
					total += s.NominalMin
				}
				rows = append(rows, []string{
					formatter.Bold(t.Name),
					formatDays(t.Days),
					strconv.Itoa(len(t.Steps)),
					formatter.FormatMinutes(total),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a template's steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Templates.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s\n\n", formatter.Bold(t.Name), formatter.Dim(formatDays(t.Days)))
			for i, s := range t.Steps {
				opt := ""
				if s.Optional {
					opt = " " + formatter.Dim("(optional)")
				}
				fmt.Printf("  %d. %s  %s%s\n", i+1, s.Name, formatter.Dim(formatter.FormatMinutes(s.NominalMin)), opt)
			}
			return nil
		},
	}
}

func newTemplateImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import DIR",
		Short: "Import YAML template files from a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Templates.ImportDir(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d template(s) from %s\n", n, args[0])
			return nil
		},
	}
}

func newTemplateRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Templates.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			if err := app.Templates.Delete(context.Background(), t.ID); err != nil {
				return err
			}
			fmt.Printf("Removed template %s\n", t.Name)
			return nil
		},
	}
}

func newTemplateNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a template interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return fmt.Errorf("'template new' needs a terminal; use 'tempo template import' instead")
			}
			t, err := runTemplateWizard()
			if err != nil {
				return err
			}
			if err := app.Templates.Create(context.Background(), t); err != nil {
				return err
			}
			fmt.Printf("Created template %s with %d step(s)\n", t.Name, len(t.Steps))
			return nil
		},
	}
}

// runTemplateWizard collects a template through a sequence of huh forms:
// name and weekdays first, then steps until the user stops adding them.
func runTemplateWizard() (*domain.RoutineTemplate, error) {
	var (
		name string
		days []time.Weekday
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewMultiSelect[time.Weekday]().
				Title("Which days? (none = every day)").
				Options(
					huh.NewOption("Monday", time.Monday),
					huh.NewOption("Tuesday", time.Tuesday),
					huh.NewOption("Wednesday", time.Wednesday),
					huh.NewOption("Thursday", time.Thursday),
					huh.NewOption("Friday", time.Friday),
					huh.NewOption("Saturday", time.Saturday),
					huh.NewOption("Sunday", time.Sunday),
				).
				Value(&days),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return nil, err
	}

	t := &domain.RoutineTemplate{Name: strings.TrimSpace(name), Days: days}
	for {
		step, more, err := runStepForm(len(t.Steps) + 1)
		if err != nil {
			return nil, err
		}
		t.Steps = append(t.Steps, step)
		if !more {
			break
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func runStepForm(ordinal int) (domain.TemplateStep, bool, error) {
	var (
		title, minutes string
		optional       bool
		more           bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Step %d title", ordinal)).
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Nominal minutes").
				Value(&minutes).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of minutes")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Optional step?").
				Value(&optional),
			huh.NewConfirm().
				Title("Add another step?").
				Value(&more),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return domain.TemplateStep{}, false, err
	}

	n, _ := strconv.Atoi(strings.TrimSpace(minutes))
	return domain.TemplateStep{
		Name:       strings.TrimSpace(title),
		NominalMin: n,
		Optional:   optional,
	}, more, nil
}

func formatDays(days []time.Weekday) string {
	if len(days) == 0 {
		return "every day"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, " ")
}
