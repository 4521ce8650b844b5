package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutineRepo_CreateAndGetByDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRoutineRepo(db)
	ctx := context.Background()

	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	routine := testutil.NewTestRoutine(date)
	b1 := testutil.NewTestBlock(routine.ID, domain.BlockMorningStep, "stretch", date.Add(7*time.Hour), 20)
	b2 := testutil.NewTestBlock(routine.ID, domain.BlockTask, "draft", date.Add(9*time.Hour), 45)
	b2.WorkItemID = "wi-1"
	b2.OrderIndex = 1
	b2.EstimateFlag = &domain.EstimateFlag{SuggestedMin: 60, Confidence: 0.8, Applied: true}
	routine.Blocks = []domain.Block{b1, b2}

	require.NoError(t, repo.Create(ctx, routine))

	fetched, err := repo.GetByDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, routine.ID, fetched.ID)
	assert.Equal(t, domain.RoutinePending, fetched.Status)
	require.Len(t, fetched.Blocks, 2)

	assert.Equal(t, "stretch", fetched.Blocks[0].Title)
	assert.Nil(t, fetched.Blocks[0].EstimateFlag)

	task := fetched.Blocks[1]
	assert.Equal(t, "wi-1", task.WorkItemID)
	require.NotNil(t, task.EstimateFlag)
	assert.Equal(t, 60, task.EstimateFlag.SuggestedMin)
	assert.InDelta(t, 0.8, task.EstimateFlag.Confidence, 1e-9)
	assert.True(t, task.EstimateFlag.Applied)
	assert.True(t, task.Start.Equal(date.Add(9*time.Hour)))
}

func TestRoutineRepo_GetByDate_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRoutineRepo(db)
	ctx := context.Background()

	_, err := repo.GetByDate(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoutineRepo_OneRoutinePerDay(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRoutineRepo(db)
	ctx := context.Background()

	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestRoutine(date)))

	err := repo.Create(ctx, testutil.NewTestRoutine(date))
	assert.Error(t, err, "second routine for the same date must be rejected")
}

func TestRoutineRepo_GetActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRoutineRepo(db)
	ctx := context.Background()

	day1 := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	completed := testutil.NewTestRoutine(day1, testutil.WithRoutineStatus(domain.RoutineCompleted))
	paused := testutil.NewTestRoutine(day2, testutil.WithRoutineStatus(domain.RoutinePaused))
	require.NoError(t, repo.Create(ctx, completed))
	require.NoError(t, repo.Create(ctx, paused))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, paused.ID, active.ID)
}

func TestRoutineRepo_GetActive_NoneRunning(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRoutineRepo(db)
	ctx := context.Background()

	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestRoutine(date)))

	_, err := repo.GetActive(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoutineRepo_Update_RewritesBlocks(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRoutineRepo(db)
	ctx := context.Background()

	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	routine := testutil.NewTestRoutine(date)
	routine.Blocks = []domain.Block{
		testutil.NewTestBlock(routine.ID, domain.BlockMorningStep, "stretch", date.Add(7*time.Hour), 20),
	}
	require.NoError(t, repo.Create(ctx, routine))

	routine.Status = domain.RoutineRunning
	routine.BufferMin = 18
	routine.Blocks[0].Skipped = true
	routine.Blocks[0].DurationMin = 10
	require.NoError(t, repo.Update(ctx, routine))

	fetched, err := repo.GetByID(ctx, routine.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoutineRunning, fetched.Status)
	assert.Equal(t, 18, fetched.BufferMin)
	require.Len(t, fetched.Blocks, 1)
	assert.True(t, fetched.Blocks[0].Skipped)
	assert.Equal(t, 10, fetched.Blocks[0].DurationMin)
}
