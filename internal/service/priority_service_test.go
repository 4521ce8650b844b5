package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/testutil"
)

func newPriorityService(t *testing.T) (PriorityService, repository.WorkItemRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	workItems := repository.NewSQLiteWorkItemRepo(database)
	profiles := repository.NewSQLiteUserProfileRepo(database)
	return NewPriorityService(workItems, profiles), workItems
}

func TestScoreItems_RanksUrgentFirst(t *testing.T) {
	ctx := context.Background()
	svc, repo := newPriorityService(t)

	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	soon := now.Add(24 * time.Hour)
	later := now.Add(20 * 24 * time.Hour)

	urgent := testutil.NewTestWorkItem("tax filing", testutil.WithDueDate(soon), testutil.WithLastTouched(now))
	relaxed := testutil.NewTestWorkItem("read paper", testutil.WithDueDate(later), testutil.WithLastTouched(now))
	require.NoError(t, repo.Create(ctx, urgent))
	require.NoError(t, repo.Create(ctx, relaxed))

	req := contract.NewScoreRequest()
	req.Now = &now
	resp, err := svc.ScoreItems(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Scores, 2)
	assert.Equal(t, urgent.ID, resp.Scores[0].WorkItemID)
	assert.Greater(t, resp.Scores[0].Composite, resp.Scores[1].Composite)
	assert.NotEmpty(t, resp.Scores[0].Reasons)
}

func TestScoreItems_ExplainOffStripsReasons(t *testing.T) {
	ctx := context.Background()
	svc, repo := newPriorityService(t)

	item := testutil.NewTestWorkItem("chore", testutil.WithLastTouched(time.Now().UTC()))
	require.NoError(t, repo.Create(ctx, item))

	resp, err := svc.ScoreItems(ctx, contract.ScoreRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Scores, 1)
	assert.Empty(t, resp.Scores[0].Reasons)
}

func TestScoreItems_UnknownIDFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPriorityService(t)

	_, err := svc.ScoreItems(ctx, contract.ScoreRequest{WorkItemIDs: []string{"nope"}})
	require.Error(t, err)

	var scoreErr *contract.ScoreError
	require.ErrorAs(t, err, &scoreErr)
	assert.Equal(t, contract.ScoreErrInvalidWorkItem, scoreErr.Code)
}

func TestScoreItems_SkipsDoneByDefault(t *testing.T) {
	ctx := context.Background()
	svc, repo := newPriorityService(t)

	pending := testutil.NewTestWorkItem("pending", testutil.WithLastTouched(time.Now().UTC()))
	done := testutil.NewTestWorkItem("done", testutil.WithStatus(domain.WorkItemDone))
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, done))

	resp, err := svc.ScoreItems(ctx, contract.ScoreRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Scores, 1)
	assert.Equal(t, pending.ID, resp.Scores[0].WorkItemID)
}
