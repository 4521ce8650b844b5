package repository

import (
	"context"
	"testing"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileRepo_GetSeededDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserProfileRepo(db)
	ctx := context.Background()

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", p.ID)
	assert.Equal(t, "07:00", p.DayStart)
	assert.Equal(t, "22:00", p.DayEnd)
	assert.Equal(t, 30, p.DefaultBufferMin)
	assert.Equal(t, 15, p.BufferStepMin)
	assert.Equal(t, domain.DefaultScoringWeights(), p.Weights)
	assert.Nil(t, p.StrategicPillars)
}

func TestUserProfileRepo_UpsertRoundTrips(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserProfileRepo(db)
	ctx := context.Background()

	p := domain.DefaultProfile()
	p.StrategicPillars = []string{"health", "writing"}
	p.DayStart = "06:30"
	p.DefaultBufferMin = 45
	p.Weights.Urgency = 0.5
	p.Weights.Importance = 0.2
	require.NoError(t, repo.Upsert(ctx, &p))

	fetched, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"health", "writing"}, fetched.StrategicPillars)
	assert.Equal(t, "06:30", fetched.DayStart)
	assert.Equal(t, 45, fetched.DefaultBufferMin)
	assert.InDelta(t, 0.5, fetched.Weights.Urgency, 1e-9)
	assert.InDelta(t, 0.2, fetched.Weights.Importance, 1e-9)
}
