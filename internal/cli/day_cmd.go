package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
)

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Run the planned day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showDay(app)
		},
	}

	cmd.AddCommand(
		newDayStartCmd(app),
		newDayWatchCmd(app),
		newDayCompleteCmd(app),
		newDayAbandonCmd(app),
	)

	return cmd
}

func showDay(app *App) error {
	routine, err := currentRoutine(app)
	if err != nil {
		return err
	}
	if routine == nil {
		fmt.Println(formatter.Dim("No routine for today. Plan one with 'tempo plan'."))
		return nil
	}
	fmt.Print(formatter.FormatRoutine(routine))
	return nil
}

// currentRoutine prefers the active routine, falling back to today's plan.
func currentRoutine(app *App) (*domain.DailyRoutine, error) {
	ctx := context.Background()

	routine, err := app.Routines.GetActive(ctx)
	if err == nil {
		return routine, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	routine, err = app.Routines.GetByDate(ctx, startOfToday())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return routine, nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func newDayStartCmd(app *App) *cobra.Command {
	var dateStr string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start executing the planned routine",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}
			routine, err := app.Execution.StartDay(context.Background(), date)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatRoutine(routine))
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "Date of the routine to start (YYYY-MM-DD, default today)")
	return cmd
}

func newDayCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Finish the active routine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			routine, err := app.Routines.GetActive(ctx)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no active routine")
			}
			if err != nil {
				return err
			}
			if err := app.Execution.CompleteDay(ctx, routine.ID); err != nil {
				return err
			}
			fmt.Println("Day complete.")
			return nil
		},
	}
}

func newDayAbandonCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon",
		Short: "Abandon the active routine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			routine, err := app.Routines.GetActive(ctx)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no active routine")
			}
			if err != nil {
				return err
			}
			if err := app.Execution.AbandonDay(ctx, routine.ID); err != nil {
				return err
			}
			fmt.Println("Routine abandoned.")
			return nil
		},
	}
}

func newDayWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of the running routine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return showDay(app)
			}
			_, err := tea.NewProgram(newDayModel(app)).Run()
			return err
		},
	}
}
