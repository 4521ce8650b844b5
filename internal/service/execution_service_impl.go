package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/execution"
	"github.com/ebrandel/tempo/internal/repository"
)

type executionService struct {
	manager       *execution.Manager
	routines      repository.RoutineRepo
	interruptions repository.InterruptionRepo
	observer      UseCaseObserver
	clock         func() time.Time
}

// ExecutionOption configures the execution service.
type ExecutionOption func(*executionService)

// WithExecutionClock substitutes the manager's time source, for tests.
func WithExecutionClock(clock func() time.Time) ExecutionOption {
	return func(s *executionService) { s.clock = clock }
}

// WithExecutionObserver registers a use-case observer.
func WithExecutionObserver(obs UseCaseObserver) ExecutionOption {
	return func(s *executionService) { s.observer = obs }
}

// NewExecutionService wires the live execution manager to storage: every
// committed transition is persisted through a manager listener.
func NewExecutionService(routines repository.RoutineRepo, interruptions repository.InterruptionRepo, opts ...ExecutionOption) *executionService {
	s := &executionService{
		routines:      routines,
		interruptions: interruptions,
		observer:      NoopUseCaseObserver{},
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.manager = execution.NewManager(
		execution.WithClock(s.clock),
		execution.WithListener(s.persistTransition),
	)
	return s
}

var _ ExecutionService = (*executionService)(nil)

// Rehydrate reloads a routine left running or paused by a previous process,
// including its open interruption. Called once at startup.
func (s *executionService) Rehydrate(ctx context.Context) error {
	routine, err := s.routines.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	wasPaused := routine.Status == domain.RoutinePaused
	if err := s.manager.Start(routine); err != nil {
		return err
	}
	if !wasPaused {
		return nil
	}

	open, err := s.interruptions.GetOpenByRoutine(ctx, routine.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.manager.AdoptInterruption(*open)
}

func (s *executionService) StartDay(ctx context.Context, date time.Time) (*domain.DailyRoutine, error) {
	routine, err := s.routines.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &contract.InterruptError{
				Code:    contract.InterruptErrUnknownRoutine,
				Message: fmt.Sprintf("no routine planned for %s", date.Format("2006-01-02")),
			}
		}
		return nil, &contract.InterruptError{Code: contract.InterruptErrInternal, Message: err.Error()}
	}
	if err := s.manager.Start(routine); err != nil {
		return nil, mapExecutionErr(err)
	}
	return routine, nil
}

func (s *executionService) Interrupt(ctx context.Context, req contract.InterruptRequest) (*contract.InterruptResponse, error) {
	routineID := req.RoutineID
	if routineID == "" {
		active, err := s.routines.GetActive(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &contract.InterruptError{
					Code:    contract.InterruptErrNoActiveRoutine,
					Message: "no routine is running",
				}
			}
			return nil, &contract.InterruptError{Code: contract.InterruptErrInternal, Message: err.Error()}
		}
		routineID = active.ID
	}

	report, err := s.manager.ReportInterruption(routineID, req.Description)
	if err != nil {
		return nil, mapExecutionErr(err)
	}
	return &contract.InterruptResponse{
		Interruption: report.Interruption,
		NextDeadline: report.NextDeadline,
		SlackMin:     report.SlackMin,
	}, nil
}

func (s *executionService) Resolve(ctx context.Context, req contract.ResolveRequest) (*contract.ResolveResponse, error) {
	interruptionID, err := s.manager.CanonicalInterruptionID(req.InterruptionID)
	if err != nil {
		return nil, mapExecutionErr(err)
	}
	delay, state, err := s.manager.ResolveInterruption(interruptionID)
	if err != nil {
		return nil, mapExecutionErr(err)
	}

	resp := &contract.ResolveResponse{DelayMin: delay, Status: domain.RoutineRunning}
	if state == execution.StateRecalculating {
		resp.Status = domain.RoutinePaused
		options, err := s.manager.GenerateTradeOffs(interruptionID)
		if err != nil {
			return nil, mapExecutionErr(err)
		}
		resp.Options = options
	}
	return resp, nil
}

func (s *executionService) ApplyTradeOff(ctx context.Context, req contract.TradeOffRequest) (*contract.TradeOffResponse, error) {
	interruptionID, err := s.manager.CanonicalInterruptionID(req.InterruptionID)
	if err != nil {
		return nil, mapExecutionErr(err)
	}
	routine, err := s.manager.ApplyTradeOff(interruptionID, req.OptionID)
	if err != nil {
		return nil, mapExecutionErr(err)
	}

	applied := domain.TradeOffOption{ID: req.OptionID}
	if interruption, err := s.interruptions.GetByID(ctx, interruptionID); err == nil {
		applied.Action = interruption.ChosenAction
		applied.BlockID = interruption.ChosenBlockID
		applied.SavedMin = interruption.SavedMin
		if b := routine.BlockByID(interruption.ChosenBlockID); b != nil {
			applied.StepTitle = b.Title
		}
	}
	return &contract.TradeOffResponse{Routine: *routine, Applied: applied}, nil
}

func (s *executionService) CompleteDay(ctx context.Context, routineID string) error {
	if err := s.manager.Complete(routineID); err != nil {
		return mapExecutionErr(err)
	}
	return nil
}

func (s *executionService) AbandonDay(ctx context.Context, routineID string) error {
	err := s.manager.Cancel(routineID)
	if err == nil {
		return nil
	}
	// A routine that was planned but never started is unknown to the
	// manager; abandon it directly in storage.
	if errors.Is(err, execution.ErrUnknownRoutine) {
		routine, repoErr := s.routines.GetByID(ctx, routineID)
		if repoErr != nil {
			return mapExecutionErr(err)
		}
		if routine.Status.Terminal() {
			return &contract.InterruptError{
				Code:    contract.InterruptErrInvalidState,
				Message: fmt.Sprintf("routine %s is %s", routineID, routine.Status),
			}
		}
		routine.Status = domain.RoutineAbandoned
		routine.UpdatedAt = time.Now().UTC()
		return s.routines.Update(ctx, routine)
	}
	return mapExecutionErr(err)
}

// persistTransition mirrors manager state into storage. Runs with the routine
// lock held, so storage errors are reported through the observer rather than
// blocking the transition.
func (s *executionService) persistTransition(routine *domain.DailyRoutine, interruption *domain.Interruption) {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	err := s.routines.Update(ctx, routine)
	if err == nil && interruption != nil {
		err = s.upsertInterruption(ctx, interruption)
	}

	if err != nil {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "persist-execution-state",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   false,
			Err:       err,
			Fields:    map[string]any{"routine_id": routine.ID},
		})
	}
}

func (s *executionService) upsertInterruption(ctx context.Context, interruption *domain.Interruption) error {
	err := s.interruptions.Update(ctx, interruption)
	if errors.Is(err, repository.ErrNotFound) {
		return s.interruptions.Create(ctx, interruption)
	}
	return err
}

func mapExecutionErr(err error) error {
	code := contract.InterruptErrInternal
	switch {
	case errors.Is(err, execution.ErrNoActiveRoutine):
		code = contract.InterruptErrNoActiveRoutine
	case errors.Is(err, execution.ErrInterruptionAlreadyOpen):
		code = contract.InterruptErrAlreadyOpen
	case errors.Is(err, execution.ErrInvalidState):
		code = contract.InterruptErrInvalidState
	case errors.Is(err, execution.ErrUnknownRoutine):
		code = contract.InterruptErrUnknownRoutine
	case errors.Is(err, execution.ErrUnknownInterruption):
		code = contract.InterruptErrUnknownInterruption
	case errors.Is(err, execution.ErrUnknownOption):
		code = contract.InterruptErrUnknownOption
	}
	return &contract.InterruptError{Code: code, Message: err.Error()}
}
