package execution

import (
	"testing"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOptions_SkipRequiresFullAbsorption(t *testing.T) {
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	routine := &domain.DailyRoutine{
		Blocks: []domain.Block{
			{ID: "b-short", Kind: domain.BlockMorningStep, Title: "short step", Start: now, DurationMin: 5, Optional: true},
			{ID: "b-long", Kind: domain.BlockMorningStep, Title: "long step", Start: now.Add(5 * time.Minute), DurationMin: 25, Optional: true},
		},
	}

	options := generateOptions(routine, 10, now)

	var skipIDs []string
	for _, o := range options {
		if o.Action == domain.TradeOffSkipStep {
			skipIDs = append(skipIDs, o.BlockID)
		}
	}
	// The 5-minute step cannot absorb a 10-minute delay.
	assert.Equal(t, []string{"b-long"}, skipIDs)
}

func TestGenerateOptions_ReduceLeavesFloor(t *testing.T) {
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	routine := &domain.DailyRoutine{
		Blocks: []domain.Block{
			{ID: "b-a", Kind: domain.BlockTask, Title: "a", Start: now, DurationMin: 12},
		},
	}

	options := generateOptions(routine, 30, now)

	var reduce *domain.TradeOffOption
	for i := range options {
		if options[i].Action == domain.TradeOffReduceStep {
			reduce = &options[i]
		}
	}
	require.NotNil(t, reduce)
	// A 12-minute block can give up at most 7, keeping 5.
	assert.Equal(t, 7, reduce.SavedMin)
}

func TestGenerateOptions_SkipsElapsedAndFixed(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	routine := &domain.DailyRoutine{
		Blocks: []domain.Block{
			{ID: "b-done", Kind: domain.BlockMorningStep, Title: "done", Start: now.Add(-time.Hour), DurationMin: 20, Optional: true},
			{ID: "b-meet", Kind: domain.BlockFixedEvent, Title: "meeting", Start: now.Add(time.Hour), DurationMin: 60},
			{ID: "b-skip", Kind: domain.BlockTask, Title: "skipped", Start: now.Add(2 * time.Hour), DurationMin: 30, Skipped: true},
		},
	}

	options := generateOptions(routine, 10, now)

	// Only the accept fallback survives.
	require.Len(t, options, 1)
	assert.Equal(t, domain.TradeOffAcceptDelay, options[0].Action)
	assert.Contains(t, options[0].StepTitle, "10-minute")
}

func TestApplyOption_ReduceNeverBelowFloor(t *testing.T) {
	routine := &domain.DailyRoutine{
		TotalPlannedMin: 40,
		Blocks: []domain.Block{
			{ID: "b-a", Kind: domain.BlockTask, DurationMin: 20},
		},
	}

	applyOption(routine, domain.TradeOffOption{
		Action: domain.TradeOffReduceStep, BlockID: "b-a", SavedMin: 12,
	})

	assert.Equal(t, 8, routine.Blocks[0].DurationMin)
	assert.Equal(t, 28, routine.TotalPlannedMin)
}
