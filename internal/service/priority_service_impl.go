package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/scheduler"
)

type priorityService struct {
	workItems repository.WorkItemRepo
	profiles  repository.UserProfileRepo
	observer  UseCaseObserver
}

func NewPriorityService(workItems repository.WorkItemRepo, profiles repository.UserProfileRepo, observers ...UseCaseObserver) PriorityService {
	return &priorityService{
		workItems: workItems,
		profiles:  profiles,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *priorityService) ScoreItems(ctx context.Context, req contract.ScoreRequest) (resp *contract.ScoreResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		if resp != nil {
			fields["scored"] = len(resp.Scores)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "score-items",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	now := startedAt
	if req.Now != nil {
		now = req.Now.UTC()
	}

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, &contract.ScoreError{Code: contract.ScoreErrDataIntegrity, Message: err.Error()}
	}

	items, err := s.selectItems(ctx, req)
	if err != nil {
		return nil, err
	}

	resp = &contract.ScoreResponse{GeneratedAt: now}
	for _, item := range items {
		score, err := scheduler.ScoreWorkItem(*item, now, *profile)
		if err != nil {
			return nil, &contract.ScoreError{
				Code:    contract.ScoreErrInvalidWorkItem,
				Message: fmt.Sprintf("work item %q: %v", item.Title, err),
			}
		}
		if !req.Explain {
			score.Reasons = nil
		}
		resp.Scores = append(resp.Scores, score)
		if item.DueDate == nil && item.ContractType == domain.ContractFixed {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("fixed commitment %q has no due date", item.Title))
		}
	}

	sort.SliceStable(resp.Scores, func(i, j int) bool {
		return resp.Scores[i].Composite > resp.Scores[j].Composite
	})
	return resp, nil
}

func (s *priorityService) selectItems(ctx context.Context, req contract.ScoreRequest) ([]*domain.WorkItem, error) {
	if len(req.WorkItemIDs) > 0 {
		items := make([]*domain.WorkItem, 0, len(req.WorkItemIDs))
		for _, id := range req.WorkItemIDs {
			item, err := s.workItems.GetByID(ctx, id)
			if err != nil {
				return nil, &contract.ScoreError{
					Code:    contract.ScoreErrInvalidWorkItem,
					Message: fmt.Sprintf("work item %s: %v", id, err),
				}
			}
			items = append(items, item)
		}
		return items, nil
	}
	if req.IncludeArchived {
		return s.workItems.List(ctx, true)
	}
	return s.workItems.ListSchedulable(ctx)
}
