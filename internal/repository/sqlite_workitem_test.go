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

func TestWorkItemRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	due := time.Now().UTC().AddDate(0, 0, 7)
	item := testutil.NewTestWorkItem("Write quarterly report",
		testutil.WithCategory("writing"),
		testutil.WithTags("report", "deep-work"),
		testutil.WithDueDate(due),
		testutil.WithPillar("career"),
	)
	require.NoError(t, repo.Create(ctx, item))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, fetched.ID)
	assert.Equal(t, "Write quarterly report", fetched.Title)
	assert.Equal(t, "writing", fetched.Category)
	assert.Equal(t, []string{"report", "deep-work"}, fetched.Tags)
	assert.Equal(t, "career", fetched.Pillar)
	assert.Equal(t, domain.ContractFlexible, fetched.ContractType)
	assert.Equal(t, domain.WorkItemPending, fetched.Status)
	require.NotNil(t, fetched.DueDate)
	assert.Equal(t, due.Format("2006-01-02"), fetched.DueDate.Format("2006-01-02"))
}

func TestWorkItemRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkItemRepo_List_ExcludesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	w1 := testutil.NewTestWorkItem("Pending")
	w2 := testutil.NewTestWorkItem("Done", testutil.WithStatus(domain.WorkItemDone))
	w3 := testutil.NewTestWorkItem("Old")
	require.NoError(t, repo.Create(ctx, w1))
	require.NoError(t, repo.Create(ctx, w2))
	require.NoError(t, repo.Create(ctx, w3))
	require.NoError(t, repo.Archive(ctx, w3.ID))

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	listAll, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, listAll, 3)
}

func TestWorkItemRepo_ListSchedulable(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	pending := testutil.NewTestWorkItem("Pending")
	scheduled := testutil.NewTestWorkItem("Scheduled", testutil.WithStatus(domain.WorkItemScheduled))
	done := testutil.NewTestWorkItem("Done", testutil.WithStatus(domain.WorkItemDone))
	cancelled := testutil.NewTestWorkItem("Cancelled", testutil.WithStatus(domain.WorkItemCancelled))
	for _, w := range []*domain.WorkItem{pending, scheduled, done, cancelled} {
		require.NoError(t, repo.Create(ctx, w))
	}

	list, err := repo.ListSchedulable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := []string{list[0].ID, list[1].ID}
	assert.Contains(t, ids, pending.ID)
	assert.Contains(t, ids, scheduled.ID)
}

func TestWorkItemRepo_Update_RoundTrips(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Draft")
	require.NoError(t, repo.Create(ctx, item))

	now := time.Now().UTC().Truncate(time.Second)
	item.Status = domain.WorkItemDone
	item.ActualMin = 42
	item.CompletedAt = &now
	item.Touch(now)
	require.NoError(t, repo.Update(ctx, item))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemDone, fetched.Status)
	assert.Equal(t, 42, fetched.ActualMin)
	require.NotNil(t, fetched.CompletedAt)
	assert.True(t, fetched.CompletedAt.Equal(now))
	assert.True(t, fetched.LastTouched.Equal(now))
}

func TestWorkItemRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Ephemeral")
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkItemRepo_EmptyTagsRoundTripAsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Untagged")
	require.NoError(t, repo.Create(ctx, item))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Tags)
}
