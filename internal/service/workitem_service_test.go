package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/testutil"
)

func newWorkItemService(t *testing.T) (WorkItemService, repository.WorkItemRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkItemRepo(database)
	return NewWorkItemService(repo), repo
}

func TestWorkItemService_CreateAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	svc, repo := newWorkItemService(t)

	w := &domain.WorkItem{Title: "write report", EstimateMin: 45}
	require.NoError(t, svc.Create(ctx, w))

	assert.NotEmpty(t, w.ID)
	assert.Equal(t, domain.WorkItemPending, w.Status)
	assert.Equal(t, domain.ContractFlexible, w.ContractType)
	assert.Equal(t, "general", w.Category)
	assert.False(t, w.LastTouched.IsZero())

	stored, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", stored.Title)
}

func TestWorkItemService_MarkDone(t *testing.T) {
	ctx := context.Background()
	svc, repo := newWorkItemService(t)

	w := testutil.NewTestWorkItem("deep work", testutil.WithEstimate(60))
	require.NoError(t, repo.Create(ctx, w))

	require.NoError(t, svc.MarkDone(ctx, w.ID, 75))

	stored, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemDone, stored.Status)
	assert.Equal(t, 75, stored.ActualMin)
	require.NotNil(t, stored.CompletedAt)
	assert.False(t, stored.LastTouched.IsZero())
}

func TestWorkItemService_MarkDoneRejectsNonPositiveActual(t *testing.T) {
	ctx := context.Background()
	svc, repo := newWorkItemService(t)

	w := testutil.NewTestWorkItem("quick fix")
	require.NoError(t, repo.Create(ctx, w))

	err := svc.MarkDone(ctx, w.ID, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestWorkItemService_ArchiveHidesFromList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newWorkItemService(t)

	keep := &domain.WorkItem{Title: "keep"}
	archive := &domain.WorkItem{Title: "archive"}
	require.NoError(t, svc.Create(ctx, keep))
	require.NoError(t, svc.Create(ctx, archive))

	require.NoError(t, svc.Archive(ctx, archive.ID))

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "keep", visible[0].Title)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
