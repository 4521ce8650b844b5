package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ebrandel/tempo/internal/cli/formatter"
	"github.com/ebrandel/tempo/internal/service"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the background scheduler",
		Long: "Keeps the planner running: builds the routine every morning and\n" +
			"rolls the day over at night. Stop with Ctrl-C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Orchestrator == nil {
				return fmt.Errorf("scheduler not configured")
			}

			cfg := service.LoadOrchestratorConfig()
			if err := app.Orchestrator.Start(cfg); err != nil {
				return err
			}
			fmt.Printf("Scheduler running: build at %q, rollover at %q\n", cfg.BuildSpec, cfg.RolloverSpec)
			fmt.Println(formatter.Dim("Ctrl-C to stop."))

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			app.Orchestrator.Stop()
			fmt.Println("Scheduler stopped.")
			return nil
		},
	}
}
