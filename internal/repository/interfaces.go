package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

// ErrNotFound is wrapped by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.WorkItem, error)
	ListSchedulable(ctx context.Context) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TemplateRepo interface {
	Create(ctx context.Context, t *domain.RoutineTemplate) error
	GetByID(ctx context.Context, id string) (*domain.RoutineTemplate, error)
	GetByName(ctx context.Context, name string) (*domain.RoutineTemplate, error)
	List(ctx context.Context) ([]*domain.RoutineTemplate, error)
	Update(ctx context.Context, t *domain.RoutineTemplate) error
	Delete(ctx context.Context, id string) error
}

type RoutineRepo interface {
	Create(ctx context.Context, r *domain.DailyRoutine) error
	GetByID(ctx context.Context, id string) (*domain.DailyRoutine, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.DailyRoutine, error)
	// GetActive returns the routine currently running or paused, if any.
	GetActive(ctx context.Context) (*domain.DailyRoutine, error)
	Update(ctx context.Context, r *domain.DailyRoutine) error
	Delete(ctx context.Context, id string) error
}

type InterruptionRepo interface {
	Create(ctx context.Context, i *domain.Interruption) error
	GetByID(ctx context.Context, id string) (*domain.Interruption, error)
	GetOpenByRoutine(ctx context.Context, routineID string) (*domain.Interruption, error)
	ListByRoutine(ctx context.Context, routineID string) ([]*domain.Interruption, error)
	Update(ctx context.Context, i *domain.Interruption) error
}

type EstimationRepo interface {
	AddSample(ctx context.Context, s *domain.EstimationSample) error
	ListSamples(ctx context.Context, category string) ([]domain.EstimationSample, error)
	UpsertPattern(ctx context.Context, p *domain.EstimationPattern) error
	GetPattern(ctx context.Context, category string) (*domain.EstimationPattern, error)
	ListPatterns(ctx context.Context) ([]*domain.EstimationPattern, error)
}

type UserProfileRepo interface {
	Get(ctx context.Context) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}
