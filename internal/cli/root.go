package cli

import (
	"github.com/ebrandel/tempo/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	WorkItems  service.WorkItemService
	Templates  service.TemplateService
	Profile    service.ProfileService
	Priority   service.PriorityService
	Estimation service.EstimationService
	Routines   service.RoutineService
	Execution  service.ExecutionService

	Orchestrator *service.Orchestrator

	// Interactive is true when stdin/stdout are a terminal; wizard-style
	// prompts are only offered then.
	Interactive bool
}

// NewRootCmd creates the top-level "tempo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempo",
		Short: "Daily routine planner with estimation learning",
	}

	root.AddCommand(
		newWorkCmd(app),
		newTemplateCmd(app),
		newPlanCmd(app),
		newScoreCmd(app),
		newEstimateCmd(app),
		newDayCmd(app),
		newInterruptCmd(app),
		newResumeCmd(app),
		newProfileCmd(app),
		newServeCmd(app),
	)

	return root
}
