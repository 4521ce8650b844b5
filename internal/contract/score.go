package contract

import (
	"time"

	"github.com/ebrandel/tempo/internal/scheduler"
)

type ScoreRequest struct {
	// WorkItemIDs limits scoring to the listed items; empty means all
	// pending and scheduled items.
	WorkItemIDs     []string
	Now             *time.Time
	IncludeArchived bool
	Explain         bool
}

func NewScoreRequest() ScoreRequest {
	return ScoreRequest{Explain: true}
}

type ScoreResponse struct {
	GeneratedAt time.Time
	Scores      []scheduler.PriorityScore
	Warnings    []string
}

type ScoreErrorCode string

const (
	ScoreErrInvalidWorkItem ScoreErrorCode = "INVALID_WORK_ITEM"
	ScoreErrDataIntegrity   ScoreErrorCode = "DATA_INTEGRITY"
)

type ScoreError struct {
	Code    ScoreErrorCode
	Message string
}

func (e *ScoreError) Error() string {
	return string(e.Code) + ": " + e.Message
}
