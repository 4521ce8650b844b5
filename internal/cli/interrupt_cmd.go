package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
)

func newInterruptCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "interrupt [DESCRIPTION]",
		Short: "Pause the running routine for an interruption",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Execution.Interrupt(context.Background(), contract.InterruptRequest{
				Description: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Routine paused. Interruption %s\n", formatter.Bold(formatter.TruncID(resp.Interruption.ID)))
			if resp.NextDeadline != nil {
				fmt.Printf("  next fixed commitment at %s\n", resp.NextDeadline.Format("15:04"))
			}
			if resp.SlackMin > 0 {
				fmt.Printf("  you have about %s before the plan slips\n", formatter.Bold(formatter.FormatMinutes(resp.SlackMin)))
			} else {
				fmt.Println("  " + formatter.StyleYellow.Render("no slack left; resolve as soon as possible"))
			}
			fmt.Println(formatter.Dim(fmt.Sprintf("Resume with 'tempo resume %s'", formatter.TruncID(resp.Interruption.ID))))
			return nil
		},
	}
}

func newResumeCmd(app *App) *cobra.Command {
	var choose int

	cmd := &cobra.Command{
		Use:   "resume INTERRUPTION_ID",
		Short: "End an interruption and get back on plan",
		Long: "Ends the interruption and checks the damage. If the time away fit\n" +
			"inside the routine's buffer the day simply continues; otherwise you\n" +
			"pick a trade-off to recover the lost minutes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			resp, err := app.Execution.Resolve(ctx, contract.ResolveRequest{InterruptionID: args[0]})
			if err != nil {
				return err
			}

			if len(resp.Options) == 0 {
				fmt.Printf("Back on plan; the buffer absorbed the interruption. %s\n",
					formatter.RoutineStatusPill(resp.Status))
				return nil
			}

			fmt.Print(formatter.FormatTradeOffs(resp.DelayMin, resp.Options))

			option, err := pickTradeOff(app, resp.Options, choose, cmd.Flags().Changed("choose"))
			if err != nil {
				return err
			}

			applied, err := app.Execution.ApplyTradeOff(ctx, contract.TradeOffRequest{
				InterruptionID: args[0],
				OptionID:       option.ID,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nApplied: %s\n\n", describeTradeOff(applied.Applied))
			fmt.Print(formatter.FormatRoutine(&applied.Routine))
			return nil
		},
	}

	cmd.Flags().IntVar(&choose, "choose", 0, "Trade-off option number to apply without prompting")
	return cmd
}

// pickTradeOff selects a trade-off option: by --choose number, interactively,
// or the accept-delay fallback when no terminal is attached. Options always
// end with accept-delay, so the fallback never loses data.
func pickTradeOff(app *App, options []domain.TradeOffOption, choose int, chooseSet bool) (domain.TradeOffOption, error) {
	if chooseSet {
		if choose < 1 || choose > len(options) {
			return domain.TradeOffOption{}, fmt.Errorf("option %d out of range 1-%d", choose, len(options))
		}
		return options[choose-1], nil
	}

	if !app.Interactive {
		return options[len(options)-1], nil
	}

	huhOptions := make([]huh.Option[int], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(describeTradeOff(opt), i)
	}

	var picked int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How do you want to recover?").
				Options(huhOptions...).
				Value(&picked),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return domain.TradeOffOption{}, err
	}
	return options[picked], nil
}

func describeTradeOff(opt domain.TradeOffOption) string {
	switch opt.Action {
	case domain.TradeOffSkipStep:
		return fmt.Sprintf("skip %s (recovers %s)", opt.StepTitle, formatter.FormatMinutes(opt.SavedMin))
	case domain.TradeOffReduceStep:
		return fmt.Sprintf("shorten %s by %s", opt.StepTitle, formatter.FormatMinutes(opt.SavedMin))
	default:
		if opt.StepTitle != "" {
			return opt.StepTitle
		}
		return "accept the delay"
	}
}
