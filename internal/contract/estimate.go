package contract

import (
	"time"

	"github.com/ebrandel/tempo/internal/scheduler"
)

type EstimateCheckRequest struct {
	Category    string
	Tags        []string
	EstimateMin int
}

type EstimateCheckResponse struct {
	GeneratedAt time.Time
	Verdict     scheduler.Verdict
}

type RecordCompletionRequest struct {
	WorkItemID string
	ActualMin  int
	// CompletedAt defaults to now when nil.
	CompletedAt *time.Time
}

type RecordCompletionResponse struct {
	WorkItemID         string
	SamplesForCategory int
	PatternUpdated     bool
}

type EstimateErrorCode string

const (
	EstimateErrNotFound      EstimateErrorCode = "WORK_ITEM_NOT_FOUND"
	EstimateErrInvalidActual EstimateErrorCode = "INVALID_ACTUAL_MIN"
	EstimateErrNotDone       EstimateErrorCode = "WORK_ITEM_NOT_DONE"
	EstimateErrDataIntegrity EstimateErrorCode = "DATA_INTEGRITY"
)

type EstimateError struct {
	Code    EstimateErrorCode
	Message string
}

func (e *EstimateError) Error() string {
	return string(e.Code) + ": " + e.Message
}
