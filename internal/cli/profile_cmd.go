package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change scheduling preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Profile.Get(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("%s\n\n", formatter.Bold("Profile"))
			fmt.Printf("  %s  %s-%s\n", formatter.Dim("DAY    "), p.DayStart, p.DayEnd)
			fmt.Printf("  %s  %s\n", formatter.Dim("BUFFER "), formatter.FormatMinutes(p.DefaultBufferMin))
			fmt.Printf("  %s  urgency %.2f  importance %.2f  staleness %.2f  type %.2f\n",
				formatter.Dim("WEIGHTS"),
				p.Weights.Urgency, p.Weights.Importance, p.Weights.Staleness, p.Weights.Type)
			if len(p.StrategicPillars) > 0 {
				fmt.Printf("  %s  %s\n", formatter.Dim("PILLARS"), strings.Join(p.StrategicPillars, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(newProfileSetCmd(app))
	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update scheduling preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}

			applyProfileFlags(cmd.Flags(), p)

			if err := app.Profile.Update(ctx, p); err != nil {
				return err
			}
			fmt.Println("Profile updated.")
			return nil
		},
	}

	cmd.Flags().String("day-start", "", "Start of the schedulable day (HH:MM)")
	cmd.Flags().String("day-end", "", "End of the schedulable day (HH:MM)")
	cmd.Flags().Int("buffer", 0, "Default routine buffer in minutes")
	cmd.Flags().StringSlice("pillars", nil, "Strategic pillars, comma-separated")
	cmd.Flags().Float64("weight-urgency", 0, "Urgency weight")
	cmd.Flags().Float64("weight-importance", 0, "Importance weight")
	cmd.Flags().Float64("weight-staleness", 0, "Staleness weight")
	cmd.Flags().Float64("weight-type", 0, "Contract type weight")

	return cmd
}

// applyProfileFlags copies only the flags the user actually set onto the
// profile, leaving everything else untouched.
func applyProfileFlags(flags *pflag.FlagSet, p *domain.UserProfile) {
	if flags.Changed("day-start") {
		p.DayStart, _ = flags.GetString("day-start")
	}
	if flags.Changed("day-end") {
		p.DayEnd, _ = flags.GetString("day-end")
	}
	if flags.Changed("buffer") {
		p.DefaultBufferMin, _ = flags.GetInt("buffer")
	}
	if flags.Changed("pillars") {
		p.StrategicPillars, _ = flags.GetStringSlice("pillars")
	}
	if flags.Changed("weight-urgency") {
		p.Weights.Urgency, _ = flags.GetFloat64("weight-urgency")
	}
	if flags.Changed("weight-importance") {
		p.Weights.Importance, _ = flags.GetFloat64("weight-importance")
	}
	if flags.Changed("weight-staleness") {
		p.Weights.Staleness, _ = flags.GetFloat64("weight-staleness")
	}
	if flags.Changed("weight-type") {
		p.Weights.Type, _ = flags.GetFloat64("weight-type")
	}
}
