package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(project string, started time.Time) *domain.SyncRun {
	return &domain.SyncRun{
		ID:         uuid.New().String(),
		ProjectKey: project,
		Status:     domain.SyncRunning,
		StartedAt:  started,
	}
}

func TestSyncRunRepo_CreateFinishLatest(t *testing.T) {
	repo := NewSQLiteSyncRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := newRun("PROJ", base)
	second := newRun("PROJ", base.Add(1500*time.Millisecond))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	finished := base.Add(5 * time.Second)
	second.Status = domain.SyncSucceeded
	second.FinishedAt = &finished
	second.TestCases = 12
	second.TestCycles = 2
	second.TestExecutions = 30
	require.NoError(t, repo.Finish(ctx, second))

	latest, err := repo.Latest(ctx, "PROJ")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, domain.SyncSucceeded, latest.Status)
	assert.Equal(t, 12, latest.TestCases)
	assert.Equal(t, 30, latest.TestExecutions)
	require.NotNil(t, latest.FinishedAt)
	assert.True(t, finished.Equal(*latest.FinishedAt))
	assert.True(t, second.StartedAt.Equal(latest.StartedAt))
}

func TestSyncRunRepo_LatestNotFound(t *testing.T) {
	repo := NewSQLiteSyncRunRepo(testutil.NewTestDB(t))

	_, err := repo.Latest(context.Background(), "NONE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSyncRunRepo_FinishUnknown(t *testing.T) {
	repo := NewSQLiteSyncRunRepo(testutil.NewTestDB(t))

	run := newRun("PROJ", time.Now())
	run.Status = domain.SyncFailed
	assert.ErrorIs(t, repo.Finish(context.Background(), run), ErrNotFound)
}

func TestSyncRunRepo_ListRecent(t *testing.T) {
	repo := NewSQLiteSyncRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, project := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, newRun(project, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "C", runs[0].ProjectKey)
	assert.Equal(t, "B", runs[1].ProjectKey)
}
