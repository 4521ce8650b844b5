package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/db"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/scheduler"
)

type estimationService struct {
	estimation repository.EstimationRepo
	workItems  repository.WorkItemRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver

	// mu serializes pattern recomputation per category so two completions
	// recorded close together cannot interleave their read-recompute-write.
	mu         sync.Mutex
	categoryMu map[string]*sync.Mutex
}

func NewEstimationService(estimation repository.EstimationRepo, workItems repository.WorkItemRepo, uow db.UnitOfWork, observers ...UseCaseObserver) EstimationService {
	return &estimationService{
		estimation: estimation,
		workItems:  workItems,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
		categoryMu: make(map[string]*sync.Mutex),
	}
}

func (s *estimationService) CheckEstimate(ctx context.Context, req contract.EstimateCheckRequest) (*contract.EstimateCheckResponse, error) {
	patterns, err := s.estimation.ListPatterns(ctx)
	if err != nil {
		return nil, &contract.EstimateError{Code: contract.EstimateErrDataIntegrity, Message: err.Error()}
	}

	candidate := domain.WorkItem{
		ID:          "candidate",
		Category:    req.Category,
		Tags:        req.Tags,
		EstimateMin: req.EstimateMin,
	}
	deref := make([]domain.EstimationPattern, len(patterns))
	for i, p := range patterns {
		deref[i] = *p
	}

	return &contract.EstimateCheckResponse{
		GeneratedAt: time.Now().UTC(),
		Verdict:     scheduler.CheckEstimate(candidate, deref),
	}, nil
}

func (s *estimationService) ListPatterns(ctx context.Context) ([]*domain.EstimationPattern, error) {
	patterns, err := s.estimation.ListPatterns(ctx)
	if err != nil {
		return nil, &contract.EstimateError{Code: contract.EstimateErrDataIntegrity, Message: err.Error()}
	}
	return patterns, nil
}

func (s *estimationService) RecordCompletion(ctx context.Context, req contract.RecordCompletionRequest) (resp *contract.RecordCompletionResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"work_item_id": req.WorkItemID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "record-completion",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if req.ActualMin <= 0 {
		return nil, &contract.EstimateError{
			Code:    contract.EstimateErrInvalidActual,
			Message: fmt.Sprintf("actual minutes must be positive, got %d", req.ActualMin),
		}
	}

	completedAt := startedAt
	if req.CompletedAt != nil {
		completedAt = req.CompletedAt.UTC()
	}

	// Resolve the pattern key and lock it before opening the transaction.
	// The item is read outside the lock only to find the right mutex.
	item, err := s.workItems.GetByID(ctx, req.WorkItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &contract.EstimateError{Code: contract.EstimateErrNotFound, Message: req.WorkItemID}
		}
		return nil, &contract.EstimateError{Code: contract.EstimateErrDataIntegrity, Message: err.Error()}
	}
	patternKey, err := s.resolvePatternKey(ctx, item)
	if err != nil {
		return nil, &contract.EstimateError{Code: contract.EstimateErrDataIntegrity, Message: err.Error()}
	}
	unlock := s.lockCategory(patternKey)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txEstimation := repository.NewSQLiteEstimationRepo(tx)

		wi, err := txWorkItems.GetByID(ctx, req.WorkItemID)
		if err != nil {
			return err
		}

		wi.Status = domain.WorkItemDone
		wi.ActualMin = req.ActualMin
		wi.CompletedAt = &completedAt
		wi.Touch(completedAt)
		if err := txWorkItems.Update(ctx, wi); err != nil {
			return err
		}

		sample := &domain.EstimationSample{
			ID:           uuid.New().String(),
			Category:     patternKey,
			Tags:         wi.Tags,
			EstimatedMin: wi.EstimateMin,
			ActualMin:    req.ActualMin,
			RecordedAt:   completedAt,
		}
		if err := txEstimation.AddSample(ctx, sample); err != nil {
			return err
		}

		samples, err := txEstimation.ListSamples(ctx, patternKey)
		if err != nil {
			return err
		}

		resp = &contract.RecordCompletionResponse{
			WorkItemID:         wi.ID,
			SamplesForCategory: len(samples),
		}

		pattern := scheduler.BuildPattern(patternKey, samples)
		pattern.UpdatedAt = completedAt
		if err := txEstimation.UpsertPattern(ctx, &pattern); err != nil {
			return err
		}
		resp.PatternUpdated = pattern.SampleCount >= domain.MinPatternSamples
		return nil
	})
	if err != nil {
		return nil, &contract.EstimateError{Code: contract.EstimateErrDataIntegrity, Message: err.Error()}
	}
	fields["samples"] = resp.SamplesForCategory
	return resp, nil
}

func (s *estimationService) lockCategory(category string) func() {
	s.mu.Lock()
	mu, ok := s.categoryMu[category]
	if !ok {
		mu = &sync.Mutex{}
		s.categoryMu[category] = mu
	}
	s.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// resolvePatternKey picks the pattern a completion feeds: the item's own
// category when it has one, otherwise the existing pattern sharing the most
// tags. An uncategorized item with no overlap starts its own pool.
func (s *estimationService) resolvePatternKey(ctx context.Context, item *domain.WorkItem) (string, error) {
	if item.Category != "" {
		return item.Category, nil
	}
	stored, err := s.estimation.ListPatterns(ctx)
	if err != nil {
		return "", err
	}
	patterns := make([]domain.EstimationPattern, len(stored))
	for i, p := range stored {
		patterns[i] = *p
	}
	if match, kind, _ := scheduler.MatchPattern(*item, patterns); kind == scheduler.MatchTagOverlap {
		return match.Category, nil
	}
	return "", nil
}
