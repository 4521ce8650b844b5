package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/repository"
)

// OrchestratorConfig holds the cron specs for the two scheduled jobs.
type OrchestratorConfig struct {
	BuildSpec    string
	RolloverSpec string
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		BuildSpec:    "0 7 * * *",
		RolloverSpec: "0 22 * * *",
	}
}

// LoadOrchestratorConfig reads cron specs from environment variables,
// falling back to a 07:00 build and a 22:00 rollover.
func LoadOrchestratorConfig() OrchestratorConfig {
	cfg := DefaultOrchestratorConfig()
	if v := os.Getenv("TEMPO_BUILD_AT"); v != "" {
		cfg.BuildSpec = v
	}
	if v := os.Getenv("TEMPO_ROLLOVER_AT"); v != "" {
		cfg.RolloverSpec = v
	}
	return cfg
}

// Orchestrator drives the two standing jobs of the planning day: the morning
// routine build and the end-of-day rollover that completes whatever routine
// is still live.
type Orchestrator struct {
	routines  RoutineService
	execution ExecutionService
	cron      *cron.Cron
	observer  UseCaseObserver
	clock     func() time.Time
}

func NewOrchestrator(routines RoutineService, execution ExecutionService, observers ...UseCaseObserver) *Orchestrator {
	return &Orchestrator{
		routines:  routines,
		execution: execution,
		cron:      cron.New(),
		observer:  useCaseObserverOrNoop(observers),
		clock:     time.Now,
	}
}

// Start registers both jobs and begins the cron loop.
func (o *Orchestrator) Start(cfg OrchestratorConfig) error {
	if _, err := o.cron.AddFunc(cfg.BuildSpec, o.BuildToday); err != nil {
		return err
	}
	if _, err := o.cron.AddFunc(cfg.RolloverSpec, o.RolloverDay); err != nil {
		return err
	}
	o.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (o *Orchestrator) Stop() {
	<-o.cron.Stop().Done()
}

// BuildToday plans today's routine. A day that is already planned is not an
// error here; the job is idempotent across restarts.
func (o *Orchestrator) BuildToday() {
	ctx := context.Background()
	startedAt := o.clock().UTC()
	today := startOfDay(startedAt)

	_, err := o.routines.PlanDay(ctx, contract.NewPlanDayRequest(today))
	var planErr *contract.PlanError
	if errors.As(err, &planErr) && planErr.Code == contract.PlanErrAlreadyPlanned {
		err = nil
	}

	o.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "scheduled-build",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"date": today.Format("2006-01-02")},
	})
}

// RolloverDay completes the active routine at end of day, if one is live.
func (o *Orchestrator) RolloverDay() {
	ctx := context.Background()
	startedAt := o.clock().UTC()

	var err error
	routine, getErr := o.routines.GetActive(ctx)
	switch {
	case errors.Is(getErr, repository.ErrNotFound):
		// Nothing live; the day ended cleanly.
	case getErr != nil:
		err = getErr
	default:
		err = o.execution.CompleteDay(ctx, routine.ID)
	}

	o.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "scheduled-rollover",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
