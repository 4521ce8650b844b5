package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/contract"
)

func newScoreCmd(app *App) *cobra.Command {
	var (
		all       bool
		noExplain bool
	)

	cmd := &cobra.Command{
		Use:   "score [ID...]",
		Short: "Rank work items by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			req := contract.NewScoreRequest()
			req.WorkItemIDs = args
			req.IncludeArchived = all
			req.Explain = !noExplain

			resp, err := app.Priority.ScoreItems(ctx, req)
			if err != nil {
				return err
			}
			if len(resp.Scores) == 0 {
				fmt.Println(formatter.Dim("Nothing to score."))
				return nil
			}

			titles := make(map[string]string, len(resp.Scores))
			for _, s := range resp.Scores {
				if w, err := app.WorkItems.GetByID(ctx, s.WorkItemID); err == nil {
					titles[s.WorkItemID] = w.Title
				}
			}

			fmt.Print(formatter.FormatScores(resp.Scores, titles, !noExplain))
			for _, w := range resp.Warnings {
				fmt.Println(formatter.StyleYellow.Render("! " + w))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived items")
	cmd.Flags().BoolVar(&noExplain, "no-explain", false, "Omit per-item reasons")

	return cmd
}
