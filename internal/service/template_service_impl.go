package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/template"
)

type templateService struct {
	templates repository.TemplateRepo
	observer  UseCaseObserver
}

func NewTemplateService(templates repository.TemplateRepo, observers ...UseCaseObserver) TemplateService {
	return &templateService{
		templates: templates,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) Create(ctx context.Context, t *domain.RoutineTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.templates.Create(ctx, t)
}

// Get resolves a template by ID first, then by name.
func (s *templateService) Get(ctx context.Context, idOrName string) (*domain.RoutineTemplate, error) {
	t, err := s.templates.GetByID(ctx, idOrName)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.templates.GetByName(ctx, idOrName)
}

func (s *templateService) List(ctx context.Context) ([]*domain.RoutineTemplate, error) {
	return s.templates.List(ctx)
}

func (s *templateService) Update(ctx context.Context, t *domain.RoutineTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	return s.templates.Update(ctx, t)
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}

func (s *templateService) ImportDir(ctx context.Context, dir string) (count int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"dir": dir}
	defer func() {
		fields["imported"] = count
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-templates",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	loaded, err := template.LoadDir(dir)
	if err != nil {
		return 0, err
	}

	for _, tmpl := range loaded {
		existing, err := s.templates.GetByName(ctx, tmpl.Name)
		switch {
		case err == nil:
			tmpl.ID = existing.ID
			tmpl.CreatedAt = existing.CreatedAt
			tmpl.UpdatedAt = time.Now().UTC()
			if err := s.templates.Update(ctx, tmpl); err != nil {
				return count, err
			}
		case errors.Is(err, repository.ErrNotFound):
			if err := s.Create(ctx, tmpl); err != nil {
				return count, err
			}
		default:
			return count, err
		}
		count++
	}
	return count, nil
}
