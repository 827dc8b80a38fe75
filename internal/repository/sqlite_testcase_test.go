package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseRepo_UpsertAndGetByKey(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Login works",
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithLabels("smoke", "auth"),
		testutil.WithCustomField("Component", "web"),
	)
	require.NoError(t, repo.Upsert(ctx, tc))

	got, err := repo.GetByKey(ctx, tc.Key)
	require.NoError(t, err)
	assert.Equal(t, tc.Key, got.Key)
	assert.Equal(t, "Login works", got.Name)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, domain.CaseDraft, got.Status)
	assert.Equal(t, []string{"smoke", "auth"}, got.Labels)
	assert.Equal(t, "web", got.CustomFields["Component"])
	require.NotNil(t, got.CreatedOn)
	assert.True(t, tc.CreatedOn.Equal(*got.CreatedOn))
}

func TestTestCaseRepo_UpsertReplaces(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Old name")
	require.NoError(t, repo.Upsert(ctx, tc))

	tc.Name = "New name"
	tc.Status = domain.CaseApproved
	require.NoError(t, repo.Upsert(ctx, tc))

	all, err := repo.ListByProject(ctx, "PROJ")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New name", all[0].Name)
	assert.Equal(t, domain.CaseApproved, all[0].Status)
}

func TestTestCaseRepo_CustomStatusKeptInPayload(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTestCaseRepo(database)
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Custom", testutil.WithCaseStatus("In Review"))
	require.NoError(t, repo.Upsert(ctx, tc), "out-of-table values must not trip the CHECK constraint")

	got, err := repo.GetByKey(ctx, tc.Key)
	require.NoError(t, err)
	assert.Equal(t, domain.TestCaseStatus("In Review"), got.Status)

	var status *string
	require.NoError(t, database.QueryRow(`SELECT status FROM test_cases WHERE key = ?`, tc.Key).Scan(&status))
	assert.Nil(t, status)
}

func TestTestCaseRepo_GetByKey_NotFound(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))

	_, err := repo.GetByKey(context.Background(), "PROJ-T999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestCaseRepo_ListOrdersNaturally(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, key := range []string{"PROJ-T10", "PROJ-T2", "PROJ-T1", "OTHER-T1"} {
		require.NoError(t, repo.Upsert(ctx, testutil.NewTestCase("x", key, testutil.WithCaseKey(key))))
	}

	byProject, err := repo.ListByProject(ctx, "PROJ")
	require.NoError(t, err)
	keys := make([]string, len(byProject))
	for i, tc := range byProject {
		keys[i] = tc.Key
	}
	assert.Equal(t, []string{"PROJ-T1", "PROJ-T2", "PROJ-T10"}, keys)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "OTHER-T1", all[0].Key)
}

func TestTestCaseRepo_Delete(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Doomed")
	require.NoError(t, repo.Upsert(ctx, tc))
	require.NoError(t, repo.Delete(ctx, tc.Key))

	_, err := repo.GetByKey(ctx, tc.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, tc.Key), ErrNotFound)
}

func TestTestCaseRepo_DeleteByProject(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCase("PROJ", "a")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCase("PROJ", "b")))
	keep := testutil.NewTestCase("KEEP", "c")
	require.NoError(t, repo.Upsert(ctx, keep))

	require.NoError(t, repo.DeleteByProject(ctx, "PROJ"))

	left, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.Key, left[0].Key)
}

func TestTestCaseRepo_EmptyKeyRejected(t *testing.T) {
	repo := NewSQLiteTestCaseRepo(testutil.NewTestDB(t))
	err := repo.Upsert(context.Background(), &domain.TestCase{Name: "no key"})
	assert.ErrorContains(t, err, "empty key")
}
