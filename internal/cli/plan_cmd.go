package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/contract"
)

func newPlanCmd(app *App) *cobra.Command {
	var (
		dateStr, templateName string
		energyPct             int
		dryRun, noExplain     bool
		keepEstimates         []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build the daily routine for a date",
		Long: "Assembles the routine for a date from the weekday's template, fixed\n" +
			"calendar events and the highest-priority flexible tasks, with step\n" +
			"durations adjusted for reported energy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			req := contract.NewPlanDayRequest(date)
			req.DryRun = dryRun
			req.Explain = !noExplain
			if cmd.Flags().Changed("energy") {
				req.EnergyOverridePct = &energyPct
			}
			if templateName != "" {
				t, err := app.Templates.Get(ctx, templateName)
				if err != nil {
					return err
				}
				req.TemplateID = t.ID
			}
			if len(keepEstimates) > 0 {
				req.EstimateOverrides = make(map[string]bool, len(keepEstimates))
				for _, id := range keepEstimates {
					req.EstimateOverrides[id] = true
				}
			}

			resp, err := app.Routines.PlanDay(ctx, req)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Println(formatter.Dim("Dry run; nothing was saved."))
			}
			fmt.Print(formatter.FormatPlanResponse(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date to plan (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&templateName, "template", "", "Template name or ID (default: the weekday's template)")
	cmd.Flags().IntVar(&energyPct, "energy", 100, "Energy override percentage (skips the wellness lookup)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the routine without saving it")
	cmd.Flags().BoolVar(&noExplain, "no-explain", false, "Omit scoring explanations")
	cmd.Flags().StringSliceVar(&keepEstimates, "keep-estimate", nil, "Work item IDs whose own estimate should be kept despite history")

	return cmd
}

// parseDateFlag resolves an optional YYYY-MM-DD flag, defaulting to today
// at local midnight.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}
