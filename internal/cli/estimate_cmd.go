package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/contract"
)

func newEstimateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Check estimates against learned history",
	}

	cmd.AddCommand(
		newEstimateCheckCmd(app),
		newEstimatePatternsCmd(app),
	)

	return cmd
}

func newEstimateCheckCmd(app *App) *cobra.Command {
	var (
		category string
		tags     []string
		minutes  int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare an estimate with historical actuals",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Estimation.CheckEstimate(context.Background(), contract.EstimateCheckRequest{
				Category:    category,
				Tags:        tags,
				EstimateMin: minutes,
			})
			if err != nil {
				return err
			}
			fmt.Println(formatter.VerdictIndicator(resp.Verdict))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Work category")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimated duration in minutes")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newEstimatePatternsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show learned estimation patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := app.Estimation.ListPatterns(context.Background())
			if err != nil {
				return err
			}
			if len(patterns) == 0 {
				fmt.Println(formatter.Dim("No patterns yet; complete a few work items first."))
				return nil
			}
			for _, p := range patterns {
				fmt.Println(formatter.FormatPattern(p))
			}
			return nil
		},
	}
}
