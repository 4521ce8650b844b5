package contract

import (
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/scheduler"
)

type PlanDayRequest struct {
	Date              time.Time
	TemplateID        string
	EnergyOverridePct *int
	// EstimateOverrides maps work item IDs to the user's keep-my-estimate
	// decision for flagged items.
	EstimateOverrides map[string]bool
	DryRun            bool
	Explain           bool
}

func NewPlanDayRequest(date time.Time) PlanDayRequest {
	return PlanDayRequest{
		Date:    date,
		Explain: true,
	}
}

type PlanDayResponse struct {
	GeneratedAt time.Time
	Routine     domain.DailyRoutine
	Scores      []scheduler.PriorityScore
	Unscheduled []scheduler.UnscheduledTask
	EnergyUsed  domain.EnergyContext
	Warnings    []string
}

type PlanErrorCode string

const (
	PlanErrInvalidDate        PlanErrorCode = "INVALID_DATE"
	PlanErrNoTemplate         PlanErrorCode = "NO_TEMPLATE"
	PlanErrSchedulingConflict PlanErrorCode = "SCHEDULING_CONFLICT"
	PlanErrAlreadyPlanned     PlanErrorCode = "ALREADY_PLANNED"
	PlanErrDataIntegrity      PlanErrorCode = "DATA_INTEGRITY"
	PlanErrInternal           PlanErrorCode = "INTERNAL_ERROR"
)

type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}
