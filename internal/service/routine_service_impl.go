package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ebrandel/tempo/internal/calendar"
	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/scheduler"
	"github.com/ebrandel/tempo/internal/wellness"
)

type routineService struct {
	routines   repository.RoutineRepo
	templates  repository.TemplateRepo
	workItems  repository.WorkItemRepo
	estimation repository.EstimationRepo
	profiles   repository.UserProfileRepo
	uow        db.UnitOfWork

	events   calendar.EventSource
	wellness wellness.Client
	observer UseCaseObserver
}

// RoutineServiceDeps bundles the collaborators PlanDay needs.
type RoutineServiceDeps struct {
	Routines   repository.RoutineRepo
	Templates  repository.TemplateRepo
	WorkItems  repository.WorkItemRepo
	Estimation repository.EstimationRepo
	Profiles   repository.UserProfileRepo
	UoW        db.UnitOfWork
	Events     calendar.EventSource
	Wellness   wellness.Client
}

func NewRoutineService(deps RoutineServiceDeps, observers ...UseCaseObserver) RoutineService {
	return &routineService{
		routines:   deps.Routines,
		templates:  deps.Templates,
		workItems:  deps.WorkItems,
		estimation: deps.Estimation,
		profiles:   deps.Profiles,
		uow:        deps.UoW,
		events:     deps.Events,
		wellness:   deps.Wellness,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *routineService) PlanDay(ctx context.Context, req contract.PlanDayRequest) (resp *contract.PlanDayResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": req.Date.Format("2006-01-02"), "dry_run": req.DryRun}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "plan-day",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if req.Date.IsZero() {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalidDate, Message: "date is required"}
	}

	if existing, err := s.routines.GetByDate(ctx, req.Date); err == nil && !req.DryRun {
		return nil, &contract.PlanError{
			Code:    contract.PlanErrAlreadyPlanned,
			Message: fmt.Sprintf("routine %s already exists for %s", existing.ID, req.Date.Format("2006-01-02")),
		}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
	}

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
	}

	tmpl, err := s.resolveTemplate(ctx, req)
	if err != nil {
		return nil, err
	}

	var warnings []string

	energy, warn := s.resolveEnergy(ctx, req, profile)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	events, err := s.events.Events(ctx, req.Date)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("calendar unavailable, planning without fixed events: %v", err))
		events = nil
	}

	tasks, err := s.workItems.ListSchedulable(ctx)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
	}

	verdicts, err := s.estimateVerdicts(ctx, tasks)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
	}

	taskvals := make([]domain.WorkItem, len(tasks))
	for i, t := range tasks {
		taskvals[i] = *t
	}

	result, err := scheduler.Build(scheduler.BuildInput{
		Date:        req.Date,
		Template:    *tmpl,
		FixedEvents: events,
		Tasks:       taskvals,
		Energy:      energy,
		Profile:     *profile,
		Verdicts:    verdicts,
		Overrides:   req.EstimateOverrides,
	})
	if err != nil {
		var conflict *scheduler.ConflictError
		if errors.As(err, &conflict) {
			return nil, &contract.PlanError{Code: contract.PlanErrSchedulingConflict, Message: conflict.Error()}
		}
		return nil, &contract.PlanError{Code: contract.PlanErrInternal, Message: err.Error()}
	}

	routine := result.Routine
	routine.ID = uuid.New().String()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	for i := range routine.Blocks {
		routine.Blocks[i].ID = uuid.New().String()
		routine.Blocks[i].RoutineID = routine.ID
	}

	if !req.DryRun {
		if err := s.persistPlan(ctx, &routine); err != nil {
			return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
		}
	}

	if !req.Explain {
		for i := range result.Scores {
			result.Scores[i].Reasons = nil
		}
	}
	fields["blocks"] = len(routine.Blocks)
	fields["unscheduled"] = len(result.Unscheduled)

	return &contract.PlanDayResponse{
		GeneratedAt: now,
		Routine:     routine,
		Scores:      result.Scores,
		Unscheduled: result.Unscheduled,
		EnergyUsed:  energy,
		Warnings:    warnings,
	}, nil
}

// resolveTemplate picks the requested template, or the weekday's when none is
// named. Templates listing explicit days win over every-day templates.
func (s *routineService) resolveTemplate(ctx context.Context, req contract.PlanDayRequest) (*domain.RoutineTemplate, error) {
	if req.TemplateID != "" {
		tmpl, err := s.templates.GetByID(ctx, req.TemplateID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &contract.PlanError{Code: contract.PlanErrNoTemplate, Message: req.TemplateID}
			}
			return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
		}
		return tmpl, nil
	}

	all, err := s.templates.List(ctx)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrDataIntegrity, Message: err.Error()}
	}

	weekday := req.Date.Weekday()
	var fallback *domain.RoutineTemplate
	for _, tmpl := range all {
		if !tmpl.AppliesTo(weekday) {
			continue
		}
		if len(tmpl.Days) > 0 {
			return tmpl, nil
		}
		if fallback == nil {
			fallback = tmpl
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, &contract.PlanError{
		Code:    contract.PlanErrNoTemplate,
		Message: fmt.Sprintf("no template applies to %s", weekday),
	}
}

func (s *routineService) resolveEnergy(ctx context.Context, req contract.PlanDayRequest, profile *domain.UserProfile) (domain.EnergyContext, string) {
	if req.EnergyOverridePct != nil {
		return domain.EnergyContext{
			EnergyPercentage:     *req.EnergyOverridePct,
			RecommendedBufferMin: profile.DefaultBufferMin,
		}, ""
	}
	if s.wellness == nil {
		return domain.DefaultEnergyContext(profile.DefaultBufferMin), ""
	}
	energy, err := s.wellness.Context(ctx, req.Date)
	if err != nil {
		return domain.DefaultEnergyContext(profile.DefaultBufferMin),
			fmt.Sprintf("wellness service unavailable, using baseline energy: %v", err)
	}
	return energy, ""
}

func (s *routineService) estimateVerdicts(ctx context.Context, tasks []*domain.WorkItem) (map[string]scheduler.Verdict, error) {
	patterns, err := s.estimation.ListPatterns(ctx)
	if err != nil {
		return nil, err
	}
	deref := make([]domain.EstimationPattern, len(patterns))
	for i, p := range patterns {
		deref[i] = *p
	}

	verdicts := make(map[string]scheduler.Verdict, len(tasks))
	for _, task := range tasks {
		verdicts[task.ID] = scheduler.CheckEstimate(*task, deref)
	}
	return verdicts, nil
}

// persistPlan stores the routine and flips every placed task to scheduled in
// one transaction.
func (s *routineService) persistPlan(ctx context.Context, routine *domain.DailyRoutine) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoutines := repository.NewSQLiteRoutineRepo(tx)
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)

		if err := txRoutines.Create(ctx, routine); err != nil {
			return err
		}
		for _, b := range routine.Blocks {
			if b.Kind != domain.BlockTask || b.WorkItemID == "" {
				continue
			}
			wi, err := txWorkItems.GetByID(ctx, b.WorkItemID)
			if err != nil {
				return err
			}
			wi.Status = domain.WorkItemScheduled
			wi.UpdatedAt = time.Now().UTC()
			if err := txWorkItems.Update(ctx, wi); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *routineService) GetByDate(ctx context.Context, date time.Time) (*domain.DailyRoutine, error) {
	return s.routines.GetByDate(ctx, date)
}

func (s *routineService) GetActive(ctx context.Context) (*domain.DailyRoutine, error) {
	return s.routines.GetActive(ctx)
}
