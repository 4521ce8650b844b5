package service

import (
	"context"
	"time"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
)

type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	MarkDone(ctx context.Context, id string, actualMin int) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TemplateService interface {
	Create(ctx context.Context, t *domain.RoutineTemplate) error
	Get(ctx context.Context, idOrName string) (*domain.RoutineTemplate, error)
	List(ctx context.Context) ([]*domain.RoutineTemplate, error)
	Update(ctx context.Context, t *domain.RoutineTemplate) error
	Delete(ctx context.Context, id string) error
	// ImportDir loads YAML template files and upserts them by name.
	ImportDir(ctx context.Context, dir string) (int, error)
}

type ProfileService interface {
	Get(ctx context.Context) (*domain.UserProfile, error)
	Update(ctx context.Context, p *domain.UserProfile) error
}

type PriorityService interface {
	ScoreItems(ctx context.Context, req contract.ScoreRequest) (*contract.ScoreResponse, error)
}

type EstimationService interface {
	CheckEstimate(ctx context.Context, req contract.EstimateCheckRequest) (*contract.EstimateCheckResponse, error)
	RecordCompletion(ctx context.Context, req contract.RecordCompletionRequest) (*contract.RecordCompletionResponse, error)
	ListPatterns(ctx context.Context) ([]*domain.EstimationPattern, error)
}

type RoutineService interface {
	PlanDay(ctx context.Context, req contract.PlanDayRequest) (*contract.PlanDayResponse, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.DailyRoutine, error)
	GetActive(ctx context.Context) (*domain.DailyRoutine, error)
}

type ExecutionService interface {
	StartDay(ctx context.Context, date time.Time) (*domain.DailyRoutine, error)
	Interrupt(ctx context.Context, req contract.InterruptRequest) (*contract.InterruptResponse, error)
	Resolve(ctx context.Context, req contract.ResolveRequest) (*contract.ResolveResponse, error)
	ApplyTradeOff(ctx context.Context, req contract.TradeOffRequest) (*contract.TradeOffResponse, error)
	CompleteDay(ctx context.Context, routineID string) error
	AbandonDay(ctx context.Context, routineID string) error
}
