package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCycleRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteTestCycleRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	cycle := testutil.NewTestCycle("PROJ", "Sprint 12",
		testutil.WithCycleStatus(domain.CycleInProgress),
		testutil.WithPlannedDates(start, end),
	)
	require.NoError(t, repo.Upsert(ctx, cycle))

	got, err := repo.GetByKey(ctx, cycle.Key)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 12", got.Name)
	assert.Equal(t, domain.CycleInProgress, got.Status)
	require.NotNil(t, got.PlannedEndDate)
	assert.True(t, end.Equal(*got.PlannedEndDate))

	_, err = repo.GetByKey(ctx, "PROJ-R404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestCycleRepo_ListAndClear(t *testing.T) {
	repo := NewSQLiteTestCycleRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCycle("PROJ", "one")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCycle("PROJ", "two", testutil.WithCycleStatus(domain.CycleDone))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCycle("OTHER", "three")))

	cycles, err := repo.ListByProject(ctx, "PROJ")
	require.NoError(t, err)
	assert.Len(t, cycles, 2)

	require.NoError(t, repo.DeleteByProject(ctx, "PROJ"))
	cycles, err = repo.ListByProject(ctx, "PROJ")
	require.NoError(t, err)
	assert.Empty(t, cycles)

	other, err := repo.ListByProject(ctx, "OTHER")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
