package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/testutil"
	"github.com/alexanderramin/zscale/internal/validation"
	"github.com/alexanderramin/zscale/internal/zapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseService_GetCachesResult(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	repos := setupRepos(t)
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Login works", testutil.WithPriority(domain.PriorityHigh))
	fake.AddTestCase(tc)

	obs := &recordingUseCaseObserver{}
	svc := NewTestCaseService(fake.Client(), repos.cases, obs)

	got, err := svc.Get(ctx, tc.Key)
	require.NoError(t, err)
	assert.Equal(t, "Login works", got.Name)
	assert.Equal(t, domain.PriorityHigh, got.Priority)

	cached, err := repos.cases.GetByKey(ctx, tc.Key)
	require.NoError(t, err)
	assert.Equal(t, "Login works", cached.Name)

	events := obs.byName("get-test-case")
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, "api", events[0].Fields["source"])
}

func TestTestCaseService_GetFallsBackToCache(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Offline copy")
	require.NoError(t, repos.cases.Upsert(ctx, tc))

	cfg := zapi.DefaultConfig()
	cfg.AuthMode = zapi.AuthToken
	cfg.APIToken = "tok"
	cfg.BaseURL = "http://127.0.0.1:1/v2"
	cfg.MaxRetries = 0

	obs := &recordingUseCaseObserver{}
	svc := NewTestCaseService(zapi.NewClient(cfg, nil), repos.cases, obs)

	got, err := svc.Get(ctx, tc.Key)
	require.NoError(t, err)
	assert.Equal(t, "Offline copy", got.Name)
	assert.Equal(t, "cache", obs.byName("get-test-case")[0].Fields["source"])

	_, err = svc.Get(ctx, "PROJ-T999")
	assert.ErrorIs(t, err, zapi.ErrUnavailable, "uncached keys still surface the API error")
}

func TestTestCaseService_GetNotFound(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	svc := NewTestCaseService(fake.Client(), nil)

	_, err := svc.Get(context.Background(), "PROJ-T404")
	assert.ErrorIs(t, err, zapi.ErrNotFound)
}

func TestTestCaseService_CreateValidates(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	svc := NewTestCaseService(fake.Client(), nil)

	_, err := svc.Create(context.Background(), TestCaseRequest{ProjectKey: "PROJ", Name: "x", Priority: "Normal"})
	var ve *validation.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, fake.Requests(), "invalid input never reaches the API")
}

func TestTestCaseService_CreateAndUpdate(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewTestCaseService(fake.Client(), repos.cases)

	created, err := svc.Create(ctx, TestCaseRequest{
		ProjectKey: "PROJ",
		Name:       "Checkout",
		Priority:   "low",
		Labels:     []string{"payments"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Key)

	stored, ok := fake.TestCase(created.Key)
	require.True(t, ok)
	assert.Equal(t, domain.PriorityLow, stored.Priority)
	assert.Equal(t, []string{"payments"}, stored.Labels)

	_, err = svc.Get(ctx, created.Key)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, created.Key, TestCaseRequest{Status: "approved"}))
	stored, _ = fake.TestCase(created.Key)
	assert.Equal(t, domain.CaseApproved, stored.Status)
	assert.Equal(t, "Checkout", stored.Name, "partial update keeps other fields")

	_, err = repos.cases.GetByKey(ctx, created.Key)
	assert.ErrorIs(t, err, repository.ErrNotFound, "update invalidates the cached copy")
}

func TestTestCaseService_Delete(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	repos := setupRepos(t)
	ctx := context.Background()

	tc := testutil.NewTestCase("PROJ", "Doomed")
	fake.AddTestCase(tc)
	require.NoError(t, repos.cases.Upsert(ctx, tc))

	svc := NewTestCaseService(fake.Client(), repos.cases)
	require.NoError(t, svc.Delete(ctx, tc.Key))

	_, ok := fake.TestCase(tc.Key)
	assert.False(t, ok)
	_, err := repos.cases.GetByKey(ctx, tc.Key)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTestCaseService_ReadOnly(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	cfg := fake.Config()
	cfg.ReadOnly = true
	svc := NewTestCaseService(zapi.NewClient(cfg, nil), nil)

	_, err := svc.Create(context.Background(), TestCaseRequest{ProjectKey: "PROJ", Name: "x"})
	assert.ErrorIs(t, err, zapi.ErrReadOnly)
	assert.Empty(t, fake.Requests())
}

func TestTestCaseService_StepsAndLinks(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	ctx := context.Background()
	tc := testutil.NewTestCase("PROJ", "With steps")
	fake.AddTestCase(tc)
	svc := NewTestCaseService(fake.Client(), nil)

	err := svc.SetSteps(ctx, tc.Key, []domain.TestStep{{ExpectedResult: "no description"}})
	assert.ErrorContains(t, err, "step 1: description is required")

	steps := []domain.TestStep{
		{Description: "Open login", ExpectedResult: "Form visible"},
		{Description: "Submit", ExpectedResult: "Dashboard", TestData: "user=a"},
	}
	require.NoError(t, svc.SetSteps(ctx, tc.Key, steps))
	got, err := svc.Steps(ctx, tc.Key)
	require.NoError(t, err)
	assert.Equal(t, steps, got)

	require.NoError(t, svc.Link(ctx, tc.Key, "PROJ-42"))
	links, err := svc.Links(ctx, tc.Key)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "PROJ-42", links[0].IssueKey)

	assert.Error(t, svc.Link(ctx, tc.Key, ""))
}

func TestTestCaseService_SearchAllPaginates(t *testing.T) {
	fake := testutil.NewFakeZephyr(t)
	for i := 0; i < 7; i++ {
		fake.AddTestCase(testutil.NewTestCase("PROJ", "case"))
	}
	fake.AddTestCase(testutil.NewTestCase("OTHER", "elsewhere"))

	svc := NewTestCaseService(fake.Client(), nil)
	all, err := svc.SearchAll(context.Background(), zapi.TestCaseQuery{ProjectKey: "PROJ", MaxResults: 3})
	require.NoError(t, err)
	assert.Len(t, all, 7)

	var searches int
	for _, r := range fake.Requests() {
		if r == "GET /v2/testcases" {
			searches++
		}
	}
	assert.Equal(t, 3, searches)
}

func TestTestCaseService_ListCached(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	for _, tc := range []*domain.TestCase{
		testutil.NewTestCase("x", "", testutil.WithCaseKey("PROJ-T1"), testutil.WithPriority(domain.PriorityHigh)),
		testutil.NewTestCase("x", "", testutil.WithCaseKey("PROJ-T12"), testutil.WithCaseStatus(domain.CaseApproved)),
		testutil.NewTestCase("x", "", testutil.WithCaseKey("PROJ-T2")),
		testutil.NewTestCase("x", "", testutil.WithCaseKey("OPS-T1"), testutil.WithPriority(domain.PriorityHigh)),
	} {
		require.NoError(t, repos.cases.Upsert(ctx, tc))
	}
	svc := NewTestCaseService(nil, repos.cases)

	keys := func(filter CacheFilter) []string {
		t.Helper()
		got, err := svc.ListCached(ctx, filter)
		require.NoError(t, err)
		out := make([]string, len(got))
		for i, tc := range got {
			out[i] = tc.Key
		}
		return out
	}

	assert.Equal(t, []string{"PROJ-T1", "PROJ-T12"}, keys(CacheFilter{KeyGlob: "PROJ-T1*"}))
	assert.Equal(t, []string{"OPS-T1", "PROJ-T1"}, keys(CacheFilter{KeyGlob: "{PROJ,OPS}-T1"}))
	assert.Equal(t, []string{"OPS-T1", "PROJ-T1"}, keys(CacheFilter{Priority: "HIGH"}))
	assert.Equal(t, []string{"PROJ-T12"}, keys(CacheFilter{ProjectKey: "PROJ", Status: "approved"}))

	_, err := svc.ListCached(ctx, CacheFilter{KeyGlob: "PROJ-[T"})
	assert.ErrorContains(t, err, "invalid key pattern")

	_, err = svc.ListCached(ctx, CacheFilter{Priority: "Normal"})
	assert.ErrorIs(t, err, domain.ErrUnknownValue)
}
