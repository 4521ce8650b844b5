package scheduler

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
)

// ConflictError reports two overlapping fixed events. The builder never
// guesses a resolution; the conflict goes back to the human.
type ConflictError struct {
	A domain.FixedEvent
	B domain.FixedEvent
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: %q (%s-%s) overlaps %q (%s-%s)",
		e.A.Title, e.A.Start.Format("15:04"), e.A.End.Format("15:04"),
		e.B.Title, e.B.Start.Format("15:04"), e.B.End.Format("15:04"))
}

// LowEnergyThreshold is the energy percentage below which a synthetic buffer
// step is appended to the morning routine.
const LowEnergyThreshold = 70

// BuildInput carries everything the builder needs. Verdicts are keyed by work
// item ID; Overrides lists item IDs whose declared estimate the user keeps
// despite a deviation flag.
type BuildInput struct {
	Date        time.Time
	Template    domain.RoutineTemplate
	FixedEvents []domain.FixedEvent
	Tasks       []domain.WorkItem
	Energy      domain.EnergyContext
	Profile     domain.UserProfile
	Verdicts    map[string]Verdict
	Overrides   map[string]bool
}

// UnscheduledTask reports a task that did not make it onto the day. Never
// silently dropped: the caller shows this list to the user.
type UnscheduledTask struct {
	WorkItemID string
	Title      string
	Reason     string
	Score      PriorityScore
}

// BuildResult is a fully assembled routine plus everything the caller must
// surface: per-task scores, estimate verdicts and the unscheduled list.
type BuildResult struct {
	Routine     domain.DailyRoutine
	Scores      []PriorityScore
	Unscheduled []UnscheduledTask
}

// Build assembles one day's routine: energy-adjusted template steps at day
// start, fixed events at their stated times, and flexible tasks filling the
// gaps in priority order. Deterministic: identical input yields an identical
// ordered block list. IDs are left empty for the caller to assign.
func Build(in BuildInput) (BuildResult, error) {
	if err := in.Template.Validate(); err != nil {
		return BuildResult{}, err
	}
	if err := checkFixedOverlap(in.FixedEvents); err != nil {
		return BuildResult{}, err
	}

	multiplier := energyMultiplier(in.Energy)
	dayStart := atClock(in.Date, in.Profile.DayStart, 7, 0)
	dayEnd := atClock(in.Date, in.Profile.DayEnd, 22, 0)

	blocks := morningBlocks(in, multiplier, dayStart)
	morningEnd := dayStart
	if n := len(blocks); n > 0 {
		morningEnd = blocks[n-1].End()
	}

	for _, ev := range in.FixedEvents {
		blocks = append(blocks, domain.Block{
			Kind:        domain.BlockFixedEvent,
			Title:       ev.Title,
			Start:       ev.Start,
			DurationMin: int(ev.End.Sub(ev.Start).Minutes()),
		})
	}

	scored, scores := scoreTasks(in)
	taskBlocks, unscheduled := placeTasks(in, scored, blocks, morningEnd, dayEnd)
	blocks = append(blocks, taskBlocks...)

	sort.SliceStable(blocks, func(i, j int) bool {
		if !blocks[i].Start.Equal(blocks[j].Start) {
			return blocks[i].Start.Before(blocks[j].Start)
		}
		return blocks[i].Title < blocks[j].Title
	})
	total := 0
	for i := range blocks {
		blocks[i].OrderIndex = i
		total += blocks[i].DurationMin
	}

	bufferMin := in.Energy.RecommendedBufferMin
	if bufferMin <= 0 {
		bufferMin = in.Profile.DefaultBufferMin
	}

	routine := domain.DailyRoutine{
		Date:             in.Date,
		TemplateID:       in.Template.ID,
		Status:           domain.RoutinePending,
		EnergyPct:        in.Energy.EnergyPercentage,
		EnergyMultiplier: multiplier,
		BufferMin:        bufferMin,
		TotalPlannedMin:  total,
		Blocks:           blocks,
	}
	return BuildResult{Routine: routine, Scores: scores, Unscheduled: unscheduled}, nil
}

// AdjustDuration scales a nominal duration by the energy multiplier and rounds
// to the nearest 5 minutes, never below 5.
func AdjustDuration(nominalMin int, multiplier float64) int {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	adjusted := int(math.Round(float64(nominalMin)/multiplier/5.0)) * 5
	if adjusted < 5 {
		return 5
	}
	return adjusted
}

func energyMultiplier(e domain.EnergyContext) float64 {
	if e.EnergyPercentage <= 0 {
		return 1.0
	}
	return float64(e.EnergyPercentage) / 100.0
}

func checkFixedOverlap(events []domain.FixedEvent) error {
	sorted := make([]domain.FixedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return &ConflictError{A: sorted[i-1], B: sorted[i]}
		}
	}
	return nil
}

func morningBlocks(in BuildInput, multiplier float64, dayStart time.Time) []domain.Block {
	var blocks []domain.Block
	cursor := dayStart
	for _, step := range in.Template.Steps {
		dur := AdjustDuration(step.NominalMin, multiplier)
		blocks = append(blocks, domain.Block{
			Kind:        domain.BlockMorningStep,
			Title:       step.Name,
			StepName:    step.Name,
			Start:       cursor,
			DurationMin: dur,
			Optional:    step.Optional,
		})
		cursor = cursor.Add(time.Duration(dur) * time.Minute)
	}

	if in.Energy.EnergyPercentage > 0 && in.Energy.EnergyPercentage < LowEnergyThreshold {
		bufMin := clampInt(in.Profile.BufferStepMin, 10, 20)
		blocks = append(blocks, domain.Block{
			Kind:        domain.BlockBuffer,
			Title:       "Low-energy buffer",
			Start:       cursor,
			DurationMin: bufMin,
			Optional:    true,
		})
	}
	return blocks
}

func scoreTasks(in BuildInput) ([]PriorityScore, []PriorityScore) {
	scores := make([]PriorityScore, 0, len(in.Tasks))
	for _, task := range in.Tasks {
		score, err := ScoreWorkItem(task, in.Date, in.Profile)
		if err != nil {
			continue
		}
		scores = append(scores, score)
	}

	ranked := make([]PriorityScore, len(scores))
	copy(ranked, scores)
	byID := taskIndex(in.Tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		dueA, dueB := byID[a.WorkItemID].DueDate, byID[b.WorkItemID].DueDate
		if (dueA == nil) != (dueB == nil) {
			return dueA != nil
		}
		if dueA != nil && dueB != nil && !dueA.Equal(*dueB) {
			return dueA.Before(*dueB)
		}
		return a.WorkItemID < b.WorkItemID
	})
	return ranked, scores
}

// placeTasks fills gaps between occupied spans in rank order, first fit.
// Tasks that fit nowhere land on the unscheduled list with a reason.
func placeTasks(in BuildInput, ranked []PriorityScore, occupied []domain.Block, earliest, dayEnd time.Time) ([]domain.Block, []UnscheduledTask) {
	spans := occupiedSpans(occupied)
	byID := taskIndex(in.Tasks)

	var placed []domain.Block
	var unscheduled []UnscheduledTask
	for _, score := range ranked {
		task := byID[score.WorkItemID]
		dur, flag := placedDuration(task, in.Verdicts[task.ID], in.Overrides[task.ID])

		start, ok := firstFit(spans, earliest, dayEnd, dur)
		if !ok {
			unscheduled = append(unscheduled, UnscheduledTask{
				WorkItemID: task.ID,
				Title:      task.Title,
				Reason:     "not scheduled today: no remaining slot fits",
				Score:      score,
			})
			continue
		}

		block := domain.Block{
			Kind:         domain.BlockTask,
			Title:        task.Title,
			WorkItemID:   task.ID,
			Start:        start,
			DurationMin:  dur,
			EstimateFlag: flag,
		}
		placed = append(placed, block)
		spans = insertSpan(spans, span{from: start, to: block.End()})
	}
	return placed, unscheduled
}

// placedDuration applies a deviation-flag suggestion unless the user overrode
// it. The flag travels with the block either way so the decision stays visible.
func placedDuration(task domain.WorkItem, verdict Verdict, override bool) (int, *domain.EstimateFlag) {
	dur := task.EstimateMin
	if dur <= 0 {
		dur = 30
	}
	if verdict.Kind != VerdictDeviationFlag {
		return dur, nil
	}
	flag := &domain.EstimateFlag{
		SuggestedMin: verdict.SuggestedMin,
		Confidence:   verdict.Confidence,
		Applied:      !override,
	}
	if override {
		return dur, flag
	}
	return verdict.SuggestedMin, flag
}

type span struct {
	from time.Time
	to   time.Time
}

func occupiedSpans(blocks []domain.Block) []span {
	spans := make([]span, 0, len(blocks))
	for _, b := range blocks {
		spans = append(spans, span{from: b.Start, to: b.End()})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].from.Before(spans[j].from) })
	return spans
}

func insertSpan(spans []span, s span) []span {
	spans = append(spans, s)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].from.Before(spans[j].from) })
	return spans
}

// firstFit returns the earliest gap of at least durMin minutes between
// earliest and dayEnd, skipping occupied spans.
func firstFit(spans []span, earliest, dayEnd time.Time, durMin int) (time.Time, bool) {
	cursor := earliest
	need := time.Duration(durMin) * time.Minute
	for _, s := range spans {
		if s.to.Before(cursor) || s.to.Equal(cursor) {
			continue
		}
		if s.from.Sub(cursor) >= need {
			return cursor, true
		}
		cursor = s.to
	}
	if dayEnd.Sub(cursor) >= need {
		return cursor, true
	}
	return time.Time{}, false
}

func taskIndex(tasks []domain.WorkItem) map[string]domain.WorkItem {
	byID := make(map[string]domain.WorkItem, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return byID
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// atClock parses an HH:MM clock string onto the given date, falling back to
// the provided default hour/minute when the string is malformed.
func atClock(date time.Time, clock string, defHour, defMin int) time.Time {
	h, m := defHour, defMin
	if t, err := time.Parse("15:04", clock); err == nil {
		h, m = t.Hour(), t.Minute()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}
