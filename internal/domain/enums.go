package domain

type ContractType string

const (
	ContractFixed    ContractType = "fixed_commitment"
	ContractFlexible ContractType = "flexible_task"
	ContractOngoing  ContractType = "ongoing"
)

// ValidContractTypes is the canonical set of accepted contract type strings.
var ValidContractTypes = map[string]bool{
	"fixed_commitment": true, "flexible_task": true, "ongoing": true,
}

type WorkItemStatus string

const (
	WorkItemPending   WorkItemStatus = "pending"
	WorkItemScheduled WorkItemStatus = "scheduled"
	WorkItemDone      WorkItemStatus = "done"
	WorkItemCancelled WorkItemStatus = "cancelled"
	WorkItemArchived  WorkItemStatus = "archived"
)

type RoutineStatus string

const (
	RoutinePending   RoutineStatus = "pending"
	RoutineRunning   RoutineStatus = "running"
	RoutinePaused    RoutineStatus = "paused"
	RoutineCompleted RoutineStatus = "completed"
	RoutineAbandoned RoutineStatus = "abandoned"
)

// Terminal reports whether a routine in this status can never transition again.
func (s RoutineStatus) Terminal() bool {
	return s == RoutineCompleted || s == RoutineAbandoned
}

type BlockKind string

const (
	BlockMorningStep BlockKind = "morning_step"
	BlockFixedEvent  BlockKind = "fixed_event"
	BlockTask        BlockKind = "task"
	BlockBuffer      BlockKind = "buffer"
)

type Tendency string

const (
	TendencyUnderestimates Tendency = "underestimates"
	TendencyOverestimates  Tendency = "overestimates"
	TendencyAccurate       Tendency = "accurate"
)

type TradeOffAction string

const (
	TradeOffSkipStep    TradeOffAction = "skip_step"
	TradeOffReduceStep  TradeOffAction = "reduce_step"
	TradeOffAcceptDelay TradeOffAction = "accept_delay"
)
