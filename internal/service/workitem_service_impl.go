package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
)

type workItemService struct {
	workItems repository.WorkItemRepo
}

func NewWorkItemService(workItems repository.WorkItemRepo) WorkItemService {
	return &workItemService{workItems: workItems}
}

func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	w.LastTouched = now
	if w.Status == "" {
		w.Status = domain.WorkItemPending
	}
	if w.ContractType == "" {
		w.ContractType = domain.ContractFlexible
	}
	if w.Category == "" {
		w.Category = "general"
	}
	return s.workItems.Create(ctx, w)
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) List(ctx context.Context, includeArchived bool) ([]*domain.WorkItem, error) {
	return s.workItems.List(ctx, includeArchived)
}

func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) error {
	w.UpdatedAt = time.Now().UTC()
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) MarkDone(ctx context.Context, id string, actualMin int) error {
	if actualMin <= 0 {
		return fmt.Errorf("actual minutes must be positive")
	}
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	w.Status = domain.WorkItemDone
	w.ActualMin = actualMin
	w.CompletedAt = &now
	w.Touch(now)
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) Archive(ctx context.Context, id string) error {
	return s.workItems.Archive(ctx, id)
}

func (s *workItemService) Delete(ctx context.Context, id string) error {
	return s.workItems.Delete(ctx, id)
}
