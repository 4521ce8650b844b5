package contract

import (
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

type InterruptRequest struct {
	RoutineID   string
	Description string
}

type InterruptResponse struct {
	Interruption domain.Interruption
	NextDeadline *time.Time
	SlackMin     int
}

type ResolveRequest struct {
	InterruptionID string
}

type ResolveResponse struct {
	DelayMin int
	// Options is empty when the interruption fit inside the buffer.
	Options []domain.TradeOffOption
	Status  domain.RoutineStatus
}

type TradeOffRequest struct {
	InterruptionID string
	OptionID       string
}

type TradeOffResponse struct {
	Routine domain.DailyRoutine
	Applied domain.TradeOffOption
}

type InterruptErrorCode string

const (
	InterruptErrNoActiveRoutine     InterruptErrorCode = "NO_ACTIVE_ROUTINE"
	InterruptErrAlreadyOpen         InterruptErrorCode = "INTERRUPTION_ALREADY_OPEN"
	InterruptErrInvalidState        InterruptErrorCode = "INVALID_STATE"
	InterruptErrUnknownRoutine      InterruptErrorCode = "UNKNOWN_ROUTINE"
	InterruptErrUnknownInterruption InterruptErrorCode = "UNKNOWN_INTERRUPTION"
	InterruptErrUnknownOption       InterruptErrorCode = "UNKNOWN_OPTION"
	InterruptErrInternal            InterruptErrorCode = "INTERNAL_ERROR"
)

type InterruptError struct {
	Code    InterruptErrorCode
	Message string
}

func (e *InterruptError) Error() string {
	return string(e.Code) + ": " + e.Message
}
