package scheduler

import (
	"testing"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate() domain.RoutineTemplate {
	return domain.RoutineTemplate{
		ID:   "tpl-1",
		Name: "morning",
		Steps: []domain.TemplateStep{
			{Name: "stretch", NominalMin: 20},
			{Name: "breakfast", NominalMin: 30},
			{Name: "journal", NominalMin: 10, Optional: true},
		},
	}
}

func testDate() time.Time {
	return time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
}

func at(date time.Time, h, m int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}

func TestAdjustDuration(t *testing.T) {
	// 20 minutes at 80% energy: 20/0.8 = 25.
	assert.Equal(t, 25, AdjustDuration(20, 0.8))
	assert.Equal(t, 20, AdjustDuration(20, 1.0))
	// 120% energy shrinks the step: 30/1.2 = 25.
	assert.Equal(t, 25, AdjustDuration(30, 1.2))
	// Never below 5 and never a zero multiplier.
	assert.Equal(t, 5, AdjustDuration(3, 1.0))
	assert.Equal(t, 20, AdjustDuration(20, 0))
}

func TestBuild_EnergyAdjustsSteps(t *testing.T) {
	result, err := Build(BuildInput{
		Date:     testDate(),
		Template: testTemplate(),
		Energy:   domain.EnergyContext{EnergyPercentage: 80},
		Profile:  domain.DefaultProfile(),
	})
	require.NoError(t, err)

	r := result.Routine
	assert.InDelta(t, 0.8, r.EnergyMultiplier, 1e-9)
	require.GreaterOrEqual(t, len(r.Blocks), 3)
	assert.Equal(t, "stretch", r.Blocks[0].Title)
	assert.Equal(t, 25, r.Blocks[0].DurationMin)
	assert.Equal(t, at(testDate(), 7, 0), r.Blocks[0].Start)
	assert.Equal(t, domain.RoutinePending, r.Status)
}

func TestBuild_LowEnergyAppendsBufferStep(t *testing.T) {
	result, err := Build(BuildInput{
		Date:     testDate(),
		Template: testTemplate(),
		Energy:   domain.EnergyContext{EnergyPercentage: 60, RecommendedBufferMin: 45},
		Profile:  domain.DefaultProfile(),
	})
	require.NoError(t, err)

	var buffer *domain.Block
	for i := range result.Routine.Blocks {
		if result.Routine.Blocks[i].Kind == domain.BlockBuffer {
			buffer = &result.Routine.Blocks[i]
		}
	}
	require.NotNil(t, buffer, "low energy should add a buffer step")
	assert.True(t, buffer.Optional)
	assert.Equal(t, 15, buffer.DurationMin)
	assert.Equal(t, 45, result.Routine.BufferMin)
}

func TestBuild_NoBufferStepAtBaselineEnergy(t *testing.T) {
	result, err := Build(BuildInput{
		Date:     testDate(),
		Template: testTemplate(),
		Energy:   domain.EnergyContext{EnergyPercentage: 100},
		Profile:  domain.DefaultProfile(),
	})
	require.NoError(t, err)
	for _, b := range result.Routine.Blocks {
		assert.NotEqual(t, domain.BlockBuffer, b.Kind)
	}
}

func TestBuild_OverlappingFixedEventsConflict(t *testing.T) {
	date := testDate()
	_, err := Build(BuildInput{
		Date:     date,
		Template: testTemplate(),
		FixedEvents: []domain.FixedEvent{
			{ID: "e1", Title: "standup", Start: at(date, 9, 0), End: at(date, 10, 0)},
			{ID: "e2", Title: "dentist", Start: at(date, 9, 30), End: at(date, 10, 30)},
		},
		Energy:  domain.EnergyContext{EnergyPercentage: 100},
		Profile: domain.DefaultProfile(),
	})
	require.Error(t, err)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestBuild_EmptyTasksStillBuilds(t *testing.T) {
	date := testDate()
	result, err := Build(BuildInput{
		Date:     date,
		Template: testTemplate(),
		FixedEvents: []domain.FixedEvent{
			{ID: "e1", Title: "standup", Start: at(date, 9, 0), End: at(date, 9, 30)},
		},
		Energy:  domain.EnergyContext{EnergyPercentage: 100},
		Profile: domain.DefaultProfile(),
	})
	require.NoError(t, err)
	assert.Len(t, result.Routine.Blocks, 4)
	assert.Empty(t, result.Unscheduled)
}

func TestBuild_TasksFillGapsByPriority(t *testing.T) {
	date := testDate()
	dueToday := at(date, 23, 0)
	nextMonth := date.AddDate(0, 1, 0)

	result, err := Build(BuildInput{
		Date:     date,
		Template: testTemplate(),
		FixedEvents: []domain.FixedEvent{
			{ID: "e1", Title: "standup", Start: at(date, 9, 0), End: at(date, 9, 30)},
		},
		Tasks: []domain.WorkItem{
			{ID: "wi-low", Title: "someday refactor", EstimateMin: 60, DueDate: &nextMonth, ContractType: domain.ContractFlexible, CreatedAt: date},
			{ID: "wi-high", Title: "tax filing", EstimateMin: 45, DueDate: &dueToday, ContractType: domain.ContractFlexible, CreatedAt: date},
		},
		Energy:  domain.EnergyContext{EnergyPercentage: 100},
		Profile: domain.DefaultProfile(),
	})
	require.NoError(t, err)

	var taskBlocks []domain.Block
	for _, b := range result.Routine.Blocks {
		if b.Kind == domain.BlockTask {
			taskBlocks = append(taskBlocks, b)
		}
	}
	require.Len(t, taskBlocks, 2)
	// Higher priority gets the earlier slot.
	assert.Equal(t, "wi-high", taskBlocks[0].WorkItemID)
	assert.True(t, taskBlocks[0].Start.Before(taskBlocks[1].Start))

	// Blocks are chronological and non-overlapping outside fixed events.
	for i := 1; i < len(result.Routine.Blocks); i++ {
		prev, cur := result.Routine.Blocks[i-1], result.Routine.Blocks[i]
		assert.False(t, cur.Start.Before(prev.Start))
	}
}

func TestBuild_OverflowTasksReportedNotDropped(t *testing.T) {
	date := testDate()
	var tasks []domain.WorkItem
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tasks = append(tasks, domain.WorkItem{
			ID: "wi-" + id, Title: id, EstimateMin: 240,
			ContractType: domain.ContractFlexible, CreatedAt: date,
		})
	}

	result, err := Build(BuildInput{
		Date:     date,
		Template: testTemplate(),
		Tasks:    tasks,
		Energy:   domain.EnergyContext{EnergyPercentage: 100},
		Profile:  domain.DefaultProfile(),
	})
	require.NoError(t, err)

	placed := 0
	for _, b := range result.Routine.Blocks {
		if b.Kind == domain.BlockTask {
			placed++
		}
	}
	assert.Equal(t, len(tasks), placed+len(result.Unscheduled))
	require.NotEmpty(t, result.Unscheduled)
	assert.Contains(t, result.Unscheduled[0].Reason, "not scheduled today")
}

func TestBuild_DeviationFlagReplacesDuration(t *testing.T) {
	date := testDate()
	verdict := Verdict{
		Kind:            VerdictDeviationFlag,
		MatchedCategory: "deep-work",
		SuggestedMin:    38,
		Confidence:      1.0,
	}
	task := domain.WorkItem{ID: "wi-1", Title: "draft", Category: "deep-work", EstimateMin: 30, ContractType: domain.ContractFlexible, CreatedAt: date}

	result, err := Build(BuildInput{
		Date:     date,
		Template: testTemplate(),
		Tasks:    []domain.WorkItem{task},
		Energy:   domain.EnergyContext{EnergyPercentage: 100},
		Profile:  domain.DefaultProfile(),
		Verdicts: map[string]Verdict{"wi-1": verdict},
	})
	require.NoError(t, err)

	block := findTaskBlock(t, result.Routine, "wi-1")
	assert.Equal(t, 38, block.DurationMin)
	require.NotNil(t, block.EstimateFlag)
	assert.True(t, block.EstimateFlag.Applied)
	assert.Equal(t, 38, block.EstimateFlag.SuggestedMin)
}

func TestBuild_DeviationOverrideKeepsDeclaredEstimate(t *testing.T) {
	date := testDate()
	verdict := Verdict{Kind: VerdictDeviationFlag, SuggestedMin: 38, Confidence: 1.0}
	task := domain.WorkItem{ID: "wi-1", Title: "draft", EstimateMin: 30, ContractType: domain.ContractFlexible, CreatedAt: date}

	result, err := Build(BuildInput{
		Date:      date,
		Template:  testTemplate(),
		Tasks:     []domain.WorkItem{task},
		Energy:    domain.EnergyContext{EnergyPercentage: 100},
		Profile:   domain.DefaultProfile(),
		Verdicts:  map[string]Verdict{"wi-1": verdict},
		Overrides: map[string]bool{"wi-1": true},
	})
	require.NoError(t, err)

	block := findTaskBlock(t, result.Routine, "wi-1")
	assert.Equal(t, 30, block.DurationMin)
	// The flag still travels with the block: the decision stays visible.
	require.NotNil(t, block.EstimateFlag)
	assert.False(t, block.EstimateFlag.Applied)
}

func findTaskBlock(t *testing.T, r domain.DailyRoutine, workItemID string) domain.Block {
	t.Helper()
	for _, b := range r.Blocks {
		if b.Kind == domain.BlockTask && b.WorkItemID == workItemID {
			return b
		}
	}
	t.Fatalf("no task block for %s", workItemID)
	return domain.Block{}
}
