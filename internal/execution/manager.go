package execution

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/google/uuid"
)

// State is the live execution state of one routine. Recalculating and
// RunningDelayed exist only here; the persisted routine status collapses them
// into running.
type State string

const (
	StateIdle           State = "idle"
	StateRunning        State = "running"
	StatePaused         State = "paused"
	StateRecalculating  State = "recalculating"
	StateRunningDelayed State = "running_with_accepted_delay"
	StateCompleted      State = "completed"
	StateAbandoned      State = "abandoned"
)

var (
	ErrNoActiveRoutine         = errors.New("no active routine")
	ErrInterruptionAlreadyOpen = errors.New("an interruption is already open")
	ErrInvalidState            = errors.New("invalid state for this operation")
	ErrUnknownRoutine          = errors.New("unknown routine")
	ErrUnknownInterruption     = errors.New("unknown interruption")
	ErrUnknownOption           = errors.New("unknown trade-off option")
)

// Report is returned when an interruption is opened: the caller can display
// "you have N minutes of slack before <deadline>".
type Report struct {
	Interruption domain.Interruption
	NextDeadline *time.Time
	SlackMin     int
}

// Listener is notified after every committed transition, with the routine and
// the interruption involved (nil when none). Used by the service layer to
// persist state; callbacks run while the routine lock is held.
type Listener func(routine *domain.DailyRoutine, interruption *domain.Interruption)

// Manager owns live execution state for routines. Each routine is a single
// mutable resource behind its own mutex, so two near-simultaneous reports on
// the same routine cannot both win.
type Manager struct {
	mu       sync.Mutex
	routines map[string]*routineState
	byInterr map[string]*routineState

	clock    func() time.Time
	listener Listener
}

type routineState struct {
	mu      sync.Mutex
	routine *domain.DailyRoutine
	state   State
	open    *domain.Interruption
	delay   int
	options []domain.TradeOffOption
	history []domain.Interruption
}

type Option func(*Manager)

// WithClock substitutes the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithListener registers a transition listener.
func WithListener(l Listener) Option {
	return func(m *Manager) { m.listener = l }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		routines: make(map[string]*routineState),
		byInterr: make(map[string]*routineState),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start registers a routine and moves it from pending to running. Re-starting
// a known routine that is already running is rejected.
func (m *Manager) Start(routine *domain.DailyRoutine) error {
	if routine == nil || routine.ID == "" {
		return fmt.Errorf("%w: routine has no ID", ErrUnknownRoutine)
	}
	if routine.Status.Terminal() {
		return fmt.Errorf("%w: routine %s is %s", ErrInvalidState, routine.ID, routine.Status)
	}

	m.mu.Lock()
	if _, ok := m.routines[routine.ID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: routine %s is already managed", ErrInvalidState, routine.ID)
	}
	// A paused routine is rehydrated as running first; the open interruption
	// is adopted via AdoptInterruption.
	rs := &routineState{routine: routine, state: StateRunning}
	routine.Status = domain.RoutineRunning
	m.routines[routine.ID] = rs
	m.mu.Unlock()

	rs.mu.Lock()
	m.notify(rs)
	rs.mu.Unlock()
	return nil
}

// AdoptInterruption seeds an already-open interruption, used when rehydrating
// a paused routine from storage.
func (m *Manager) AdoptInterruption(interruption domain.Interruption) error {
	rs, err := m.lookupRoutine(interruption.RoutineID)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.open != nil {
		return ErrInterruptionAlreadyOpen
	}
	if !interruption.Open() {
		return fmt.Errorf("%w: interruption %s is resolved", ErrInvalidState, interruption.ID)
	}
	open := interruption
	rs.open = &open
	rs.state = StatePaused
	rs.routine.Status = domain.RoutinePaused

	m.mu.Lock()
	m.byInterr[open.ID] = rs
	m.mu.Unlock()
	return nil
}

// ReportInterruption pauses a running routine. Exactly one caller wins; the
// loser gets ErrInterruptionAlreadyOpen, which is a caller logic error, not a
// retryable race.
func (m *Manager) ReportInterruption(routineID, description string) (*Report, error) {
	rs, err := m.lookupRoutine(routineID)
	if err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	switch rs.state {
	case StateRunning, StateRunningDelayed:
	case StatePaused:
		return nil, ErrInterruptionAlreadyOpen
	default:
		return nil, fmt.Errorf("%w: routine %s is %s", ErrNoActiveRoutine, routineID, rs.state)
	}

	now := m.clock()
	interruption := &domain.Interruption{
		ID:                 uuid.New().String(),
		RoutineID:          routineID,
		Description:        description,
		StartedAt:          now,
		BufferAvailableMin: rs.routine.BufferMin,
		CreatedAt:          now,
	}
	rs.open = interruption
	rs.state = StatePaused
	rs.routine.Status = domain.RoutinePaused
	rs.routine.UpdatedAt = now

	m.mu.Lock()
	m.byInterr[interruption.ID] = rs
	m.mu.Unlock()

	report := &Report{Interruption: *interruption, SlackMin: rs.routine.BufferMin}
	if next := rs.routine.NextFixedCommitment(now); next != nil {
		deadline := next.Start
		report.NextDeadline = &deadline
		slack := int(deadline.Sub(now).Minutes())
		if slack < report.SlackMin {
			report.SlackMin = slack
		}
	}
	if report.SlackMin < 0 {
		report.SlackMin = 0
	}
	m.notify(rs)
	return report, nil
}

// ResolveInterruption closes the open interruption and computes the delay.
// Zero delay returns straight to running; otherwise the routine sits in
// recalculating until a trade-off is applied.
func (m *Manager) ResolveInterruption(interruptionID string) (int, State, error) {
	rs, err := m.lookupInterruption(interruptionID)
	if err != nil {
		return 0, "", err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.state != StatePaused || rs.open == nil || rs.open.ID != interruptionID {
		return 0, rs.state, fmt.Errorf("%w: no open interruption %s", ErrInvalidState, interruptionID)
	}

	now := m.clock()
	rs.open.EndedAt = &now
	spent := rs.open.TimeSpentMin()

	consumed := spent
	if consumed > rs.open.BufferAvailableMin {
		consumed = rs.open.BufferAvailableMin
	}
	rs.routine.BufferMin -= consumed
	if rs.routine.BufferMin < 0 {
		rs.routine.BufferMin = 0
	}

	delay := spent - rs.open.BufferAvailableMin
	if delay < 0 {
		delay = 0
	}
	rs.open.DelayMin = delay
	rs.delay = delay
	rs.routine.UpdatedAt = now

	if delay == 0 {
		rs.open.ChosenAction = ""
		rs.closeOpen()
		rs.state = StateRunning
		rs.routine.Status = domain.RoutineRunning
		m.notify(rs)
		return 0, StateRunning, nil
	}

	rs.state = StateRecalculating
	rs.options = nil
	m.notify(rs)
	return delay, StateRecalculating, nil
}

// GenerateTradeOffs produces the option list for a resolved interruption with
// positive delay. Calling it with zero delay is a contract violation.
func (m *Manager) GenerateTradeOffs(interruptionID string) ([]domain.TradeOffOption, error) {
	rs, err := m.lookupInterruption(interruptionID)
	if err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.state != StateRecalculating || rs.open == nil || rs.open.ID != interruptionID {
		return nil, fmt.Errorf("%w: interruption %s is not awaiting a trade-off", ErrInvalidState, interruptionID)
	}
	if rs.delay <= 0 {
		return nil, fmt.Errorf("%w: no delay to trade off", ErrInvalidState)
	}

	rs.options = generateOptions(rs.routine, rs.delay, m.clock())
	out := make([]domain.TradeOffOption, len(rs.options))
	copy(out, rs.options)
	return out, nil
}

// ApplyTradeOff applies the chosen option to the remaining blocks, records the
// choice on the interruption and returns the routine to running.
func (m *Manager) ApplyTradeOff(interruptionID, optionID string) (*domain.DailyRoutine, error) {
	rs, err := m.lookupInterruption(interruptionID)
	if err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.state != StateRecalculating || rs.open == nil || rs.open.ID != interruptionID {
		return nil, fmt.Errorf("%w: interruption %s is not awaiting a trade-off", ErrInvalidState, interruptionID)
	}
	if rs.options == nil {
		rs.options = generateOptions(rs.routine, rs.delay, m.clock())
	}

	var chosen *domain.TradeOffOption
	for i := range rs.options {
		if rs.options[i].ID == optionID {
			chosen = &rs.options[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}

	applyOption(rs.routine, *chosen)
	rs.open.ChosenAction = chosen.Action
	rs.open.ChosenBlockID = chosen.BlockID
	rs.open.SavedMin = chosen.SavedMin
	rs.closeOpen()

	if chosen.Action == domain.TradeOffAcceptDelay {
		rs.state = StateRunningDelayed
	} else {
		rs.state = StateRunning
	}
	rs.routine.Status = domain.RoutineRunning
	rs.routine.UpdatedAt = m.clock()
	rs.options = nil
	rs.delay = 0

	m.notify(rs)
	snapshot := *rs.routine
	return &snapshot, nil
}

// Complete is the normal end-of-day terminal transition.
func (m *Manager) Complete(routineID string) error {
	return m.terminate(routineID, StateCompleted, domain.RoutineCompleted)
}

// Cancel abandons the routine from any state and releases it so a new routine
// can be generated.
func (m *Manager) Cancel(routineID string) error {
	return m.terminate(routineID, StateAbandoned, domain.RoutineAbandoned)
}

func (m *Manager) terminate(routineID string, state State, status domain.RoutineStatus) error {
	rs, err := m.lookupRoutine(routineID)
	if err != nil {
		return err
	}

	rs.mu.Lock()
	if rs.state == StateCompleted || rs.state == StateAbandoned {
		rs.mu.Unlock()
		return fmt.Errorf("%w: routine %s already %s", ErrInvalidState, routineID, rs.state)
	}
	if rs.open != nil {
		now := m.clock()
		rs.open.EndedAt = &now
		rs.closeOpen()
	}
	rs.state = state
	rs.routine.Status = status
	rs.routine.UpdatedAt = m.clock()
	m.notify(rs)
	interruptionIDs := make([]string, 0, len(rs.history))
	for _, i := range rs.history {
		interruptionIDs = append(interruptionIDs, i.ID)
	}
	rs.mu.Unlock()

	m.mu.Lock()
	delete(m.routines, routineID)
	for _, id := range interruptionIDs {
		delete(m.byInterr, id)
	}
	m.mu.Unlock()
	return nil
}

// StateOf reports the live state of a routine, StateIdle when unknown.
func (m *Manager) StateOf(routineID string) State {
	m.mu.Lock()
	rs, ok := m.routines[routineID]
	m.mu.Unlock()
	if !ok {
		return StateIdle
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.state
}

// Routine returns a snapshot of a managed routine.
func (m *Manager) Routine(routineID string) (*domain.DailyRoutine, error) {
	rs, err := m.lookupRoutine(routineID)
	if err != nil {
		return nil, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	snapshot := *rs.routine
	return &snapshot, nil
}

func (m *Manager) lookupRoutine(routineID string) (*routineState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.routines[routineID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoutine, routineID)
	}
	return rs, nil
}

func (m *Manager) lookupInterruption(interruptionID string) (*routineState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.canonicalInterruptionIDLocked(interruptionID)
	if err != nil {
		return nil, err
	}
	return m.byInterr[id], nil
}

// CanonicalInterruptionID expands an ID prefix to the full interruption ID.
// A prefix that matches no interruption, or more than one, is unknown.
func (m *Manager) CanonicalInterruptionID(idOrPrefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canonicalInterruptionIDLocked(idOrPrefix)
}

func (m *Manager) canonicalInterruptionIDLocked(idOrPrefix string) (string, error) {
	if _, ok := m.byInterr[idOrPrefix]; ok {
		return idOrPrefix, nil
	}
	var match string
	if idOrPrefix != "" {
		for id := range m.byInterr {
			if !strings.HasPrefix(id, idOrPrefix) {
				continue
			}
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrUnknownInterruption, idOrPrefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownInterruption, idOrPrefix)
	}
	return match, nil
}

// closeOpen moves the open interruption to history. Caller holds rs.mu.
func (rs *routineState) closeOpen() {
	if rs.open != nil {
		rs.history = append(rs.history, *rs.open)
		rs.open = nil
	}
}

func (m *Manager) notify(rs *routineState) {
	if m.listener == nil {
		return
	}
	var interruption *domain.Interruption
	if rs.open != nil {
		cp := *rs.open
		interruption = &cp
	} else if n := len(rs.history); n > 0 {
		cp := rs.history[n-1]
		interruption = &cp
	}
	m.listener(rs.routine, interruption)
}
