package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebrandel/tempo/internal/contract"
	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
	"github.com/ebrandel/tempo/internal/scheduler"
	"github.com/ebrandel/tempo/internal/testutil"
)

func newEstimationService(t *testing.T) (EstimationService, repository.WorkItemRepo, repository.EstimationRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	workItems := repository.NewSQLiteWorkItemRepo(database)
	estimation := repository.NewSQLiteEstimationRepo(database)
	svc := NewEstimationService(estimation, workItems, testutil.NewTestUoW(database))
	return svc, workItems, estimation
}

func TestRecordCompletion_MarksDoneAndStoresSample(t *testing.T) {
	ctx := context.Background()
	svc, workItems, estimation := newEstimationService(t)

	item := testutil.NewTestWorkItem("draft chapter", testutil.WithCategory("writing"), testutil.WithEstimate(60))
	require.NoError(t, workItems.Create(ctx, item))

	resp, err := svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: item.ID, ActualMin: 90})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SamplesForCategory)
	assert.False(t, resp.PatternUpdated)

	stored, err := workItems.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemDone, stored.Status)
	assert.Equal(t, 90, stored.ActualMin)

	samples, err := estimation.ListSamples(ctx, "writing")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 60, samples[0].EstimatedMin)
	assert.Equal(t, 90, samples[0].ActualMin)
}

func TestRecordCompletion_PatternConsultedAfterFiveSamples(t *testing.T) {
	ctx := context.Background()
	svc, workItems, _ := newEstimationService(t)

	var last *contract.RecordCompletionResponse
	for i := 0; i < domain.MinPatternSamples; i++ {
		item := testutil.NewTestWorkItem("writing task", testutil.WithCategory("writing"), testutil.WithEstimate(30))
		require.NoError(t, workItems.Create(ctx, item))
		resp, err := svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: item.ID, ActualMin: 45})
		require.NoError(t, err)
		last = resp
	}

	assert.Equal(t, domain.MinPatternSamples, last.SamplesForCategory)
	assert.True(t, last.PatternUpdated)

	// The learned tendency now flags a matching low estimate.
	check, err := svc.CheckEstimate(ctx, contract.EstimateCheckRequest{Category: "writing", EstimateMin: 30})
	require.NoError(t, err)
	assert.Equal(t, scheduler.VerdictDeviationFlag, check.Verdict.Kind)
	assert.Equal(t, 45, check.Verdict.SuggestedMin)
}

func TestRecordCompletion_PatternTagsAccumulateAcrossItems(t *testing.T) {
	ctx := context.Background()
	svc, workItems, estimation := newEstimationService(t)

	first := testutil.NewTestWorkItem("shopping run", testutil.WithCategory("errand"), testutil.WithTags("groceries", "car"))
	require.NoError(t, workItems.Create(ctx, first))
	_, err := svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: first.ID, ActualMin: 40})
	require.NoError(t, err)

	second := testutil.NewTestWorkItem("pick up prescription", testutil.WithCategory("errand"), testutil.WithTags("pharmacy"))
	require.NoError(t, workItems.Create(ctx, second))
	_, err = svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: second.ID, ActualMin: 15})
	require.NoError(t, err)

	pattern, err := estimation.GetPattern(ctx, "errand")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"groceries", "car", "pharmacy"}, pattern.Tags)
}

func TestRecordCompletion_UncategorizedJoinsTagOverlapPattern(t *testing.T) {
	ctx := context.Background()
	svc, workItems, _ := newEstimationService(t)

	for i := 0; i < domain.MinPatternSamples; i++ {
		item := testutil.NewTestWorkItem("errand run", testutil.WithCategory("errand"), testutil.WithTags("car"), testutil.WithEstimate(30))
		require.NoError(t, workItems.Create(ctx, item))
		_, err := svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: item.ID, ActualMin: 45})
		require.NoError(t, err)
	}

	stray := testutil.NewTestWorkItem("drop off package", testutil.WithTags("car"), testutil.WithEstimate(20))
	require.NoError(t, workItems.Create(ctx, stray))
	resp, err := svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: stray.ID, ActualMin: 30})
	require.NoError(t, err)

	// The uncategorized completion lands in the overlapping category's pool.
	assert.Equal(t, domain.MinPatternSamples+1, resp.SamplesForCategory)
	assert.True(t, resp.PatternUpdated)
}

func TestRecordCompletion_Errors(t *testing.T) {
	ctx := context.Background()
	svc, workItems, _ := newEstimationService(t)

	item := testutil.NewTestWorkItem("task")
	require.NoError(t, workItems.Create(ctx, item))

	var estErr *contract.EstimateError

	_, err := svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: item.ID, ActualMin: -5})
	require.ErrorAs(t, err, &estErr)
	assert.Equal(t, contract.EstimateErrInvalidActual, estErr.Code)

	_, err = svc.RecordCompletion(ctx, contract.RecordCompletionRequest{WorkItemID: "missing", ActualMin: 20})
	require.ErrorAs(t, err, &estErr)
	assert.Equal(t, contract.EstimateErrNotFound, estErr.Code)
}

func TestCheckEstimate_InsufficientData(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newEstimationService(t)

	resp, err := svc.CheckEstimate(ctx, contract.EstimateCheckRequest{Category: "unknown", EstimateMin: 30})
	require.NoError(t, err)
	assert.Equal(t, scheduler.VerdictInsufficientData, resp.Verdict.Kind)
}
