package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/ebrandel/tempo/internal/calendar"
	"github.com/ebrandel/tempo/internal/cli"
	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/service"
	"github.com/ebrandel/tempo/internal/wellness"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Determine DB path: env var or default ~/.tempo/tempo.db
	dbPath := os.Getenv("TEMPO_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tempo", "tempo.db")
	}

	// Determine template directory
	templateDir := os.Getenv("TEMPO_TEMPLATES")
	if templateDir == "" {
		// Check for ./templates in current directory first (development)
		if stat, err := os.Stat("./templates"); err == nil && stat.IsDir() {
			templateDir = "./templates"
		} else {
			// Fall back to ~/.tempo/templates (production)
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			templateDir = filepath.Join(home, ".tempo", "templates")
		}
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	templateRepo := repository.NewSQLiteTemplateRepo(database)
	routineRepo := repository.NewSQLiteRoutineRepo(database)
	interruptionRepo := repository.NewSQLiteInterruptionRepo(database)
	estimationRepo := repository.NewSQLiteEstimationRepo(database)
	profileRepo := repository.NewSQLiteUserProfileRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Optional use-case logging to stderr
	var observers []service.UseCaseObserver
	if v, _ := strconv.ParseBool(os.Getenv("TEMPO_LOG_USE_CASES")); v {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Fixed events come from Google Calendar when enabled, otherwise the
	// planner runs on templates and tasks alone.
	var events calendar.EventSource
	calCfg := calendar.LoadConfig()
	if calCfg.Enabled {
		src, err := calendar.NewGoogleSource(ctx, calCfg)
		if err != nil {
			return fmt.Errorf("connecting to calendar: %w", err)
		}
		events = src
	} else {
		events = calendar.NewStaticSource(nil)
	}

	// Energy comes from the wellness collaborator when enabled, otherwise
	// planning uses baseline energy with the profile's buffer.
	var wellnessClient wellness.Client
	wellCfg := wellness.LoadConfig()
	if wellCfg.Enabled {
		var observer wellness.Observer = wellness.NoopObserver{}
		if wellCfg.LogCalls {
			observer = wellness.NewLogObserver(os.Stderr)
		}
		wellnessClient = wellness.NewHTTPClient(wellCfg, observer)
	} else {
		profile, err := profileRepo.Get(ctx)
		bufferMin := 30
		if err == nil {
			bufferMin = profile.DefaultBufferMin
		}
		wellnessClient = wellness.StaticClient{Energy: domain.DefaultEnergyContext(bufferMin)}
	}

	// Wire services
	templateSvc := service.NewTemplateService(templateRepo, observers...)
	routineSvc := service.NewRoutineService(service.RoutineServiceDeps{
		Routines:   routineRepo,
		Templates:  templateRepo,
		WorkItems:  workItemRepo,
		Estimation: estimationRepo,
		Profiles:   profileRepo,
		UoW:        uow,
		Events:     events,
		Wellness:   wellnessClient,
	}, observers...)
	var execOpts []service.ExecutionOption
	for _, obs := range observers {
		execOpts = append(execOpts, service.WithExecutionObserver(obs))
	}
	executionSvc := service.NewExecutionService(routineRepo, interruptionRepo, execOpts...)

	// Pick up templates dropped into the template directory.
	if stat, err := os.Stat(templateDir); err == nil && stat.IsDir() {
		if _, err := templateSvc.ImportDir(ctx, templateDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: importing templates: %v\n", err)
		}
	}

	// Restore execution state after a restart so a paused day can resume.
	if err := executionSvc.Rehydrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: restoring execution state: %v\n", err)
	}

	app := &cli.App{
		WorkItems:  service.NewWorkItemService(workItemRepo),
		Templates:  templateSvc,
		Profile:    service.NewProfileService(profileRepo),
		Priority:   service.NewPriorityService(workItemRepo, profileRepo, observers...),
		Estimation: service.NewEstimationService(estimationRepo, workItemRepo, uow, observers...),
		Routines:   routineSvc,
		Execution:  executionSvc,

		Orchestrator: service.NewOrchestrator(routineSvc, executionSvc, observers...),

		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
