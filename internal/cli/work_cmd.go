package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Manage work items",
	}

	cmd.AddCommand(
		newWorkAddCmd(app),
		newWorkListCmd(app),
		newWorkInspectCmd(app),
		newWorkDoneCmd(app),
		newWorkArchiveCmd(app),
		newWorkRemoveCmd(app),
	)

	return cmd
}

func newWorkAddCmd(app *App) *cobra.Command {
	var (
		title, category, pillar, contractType, due string
		tags                                       []string
		estimateMin                                int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new work item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			w := &domain.WorkItem{
				Title:        title,
				Category:     category,
				Tags:         tags,
				EstimateMin:  estimateMin,
				Pillar:       pillar,
				ContractType: domain.ContractType(contractType),
			}
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q, want YYYY-MM-DD", due)
				}
				w.DueDate = &d
			}

			if err := app.WorkItems.Create(ctx, w); err != nil {
				return err
			}
			fmt.Printf("Created work item %s (%s)\n", w.Title, formatter.TruncID(w.ID))

			// Check the estimate against learned history right away so the
			// user can adjust before planning.
			if estimateMin > 0 {
				check, err := app.Estimation.CheckEstimate(ctx, contract.EstimateCheckRequest{
					Category:    w.Category,
					Tags:        w.Tags,
					EstimateMin: estimateMin,
				})
				if err == nil {
					fmt.Println(formatter.VerdictIndicator(check.Verdict))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Work item title")
	cmd.Flags().StringVar(&category, "category", "", "Category for estimation learning (default general)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().IntVar(&estimateMin, "estimate", 0, "Estimated duration in minutes")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&pillar, "pillar", "", "Strategic pillar")
	cmd.Flags().StringVar(&contractType, "contract", "", "Contract type (fixed_commitment|flexible_task|ongoing)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newWorkListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.WorkItems.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println(formatter.Dim("No work items."))
				return nil
			}

			headers := []string{"ID", "TITLE", "STATUS", "EST", "DUE", "CATEGORY"}
			rows := make([][]string, 0, len(items))
			for _, w := range items {
				due := formatter.Dim("-")
				if w.DueDate != nil {
					due = formatter.RelativeDate(*w.DueDate)
				}
				rows = append(rows, []string{
					formatter.Dim(formatter.TruncID(w.ID)),
					w.Title,
					formatter.WorkItemStatusPill(w.Status),
					formatter.FormatMinutes(w.EstimateMin),
					due,
					formatter.Dim(w.Category),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived items")
	return cmd
}

func newWorkInspectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect ID",
		Short: "Show work item details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.WorkItems.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(w.Title), formatter.Dim(w.Category)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("STATUS  "), formatter.WorkItemStatusPill(w.Status)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID      "), formatter.TruncID(w.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("CONTRACT"), formatter.Dim(string(w.ContractType))))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ESTIMATE"), formatter.FormatMinutes(w.EstimateMin)))
			if w.ActualMin > 0 {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ACTUAL  "), formatter.FormatMinutes(w.ActualMin)))
			}
			if len(w.Tags) > 0 {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("TAGS    "), strings.Join(w.Tags, ", ")))
			}
			if w.Pillar != "" {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("PILLAR  "), w.Pillar))
			}
			if w.DueDate != nil {
				b.WriteString(fmt.Sprintf("  %s  %s %s\n", formatter.Dim("DUE     "),
					formatter.RelativeDate(*w.DueDate),
					formatter.Dim("("+w.DueDate.Format("Jan 2, 2006")+")")))
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("TOUCHED "), w.LastTouched.Format("Jan 2 15:04")))

			fmt.Print(b.String())
			return nil
		},
	}
	return cmd
}

func newWorkDoneCmd(app *App) *cobra.Command {
	var actualMin int
	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Complete a work item and record the actual duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Estimation.RecordCompletion(context.Background(), contract.RecordCompletionRequest{
				WorkItemID: args[0],
				ActualMin:  actualMin,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Completed work item %s (%s actual)\n",
				formatter.TruncID(resp.WorkItemID), formatter.FormatMinutes(actualMin))
			if resp.PatternUpdated {
				fmt.Println(formatter.Dim(fmt.Sprintf("Estimation pattern updated (%d samples)", resp.SamplesForCategory)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&actualMin, "actual", 0, "Actual duration in minutes")
	_ = cmd.MarkFlagRequired("actual")
	return cmd
}

func newWorkArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.WorkItems.Archive(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Archived work item %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newWorkRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.WorkItems.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed work item %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}
