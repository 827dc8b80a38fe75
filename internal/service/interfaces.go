package service

import (
	"context"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/zapi"
)

type TestCaseService interface {
	Get(ctx context.Context, key string) (*domain.TestCase, error)
	Search(ctx context.Context, q zapi.TestCaseQuery) (*zapi.Page[domain.TestCase], error)
	SearchAll(ctx context.Context, q zapi.TestCaseQuery) ([]domain.TestCase, error)
	Create(ctx context.Context, req TestCaseRequest) (*zapi.Created, error)
	Update(ctx context.Context, key string, req TestCaseRequest) error
	Delete(ctx context.Context, key string) error
	Steps(ctx context.Context, key string) ([]domain.TestStep, error)
	SetSteps(ctx context.Context, key string, steps []domain.TestStep) error
	Links(ctx context.Context, key string) ([]domain.IssueLink, error)
	Link(ctx context.Context, key, issueKey string) error
	ListCached(ctx context.Context, filter CacheFilter) ([]*domain.TestCase, error)
}

type TestCycleService interface {
	Get(ctx context.Context, key string) (*domain.TestCycle, error)
	Search(ctx context.Context, q zapi.TestCycleQuery) (*zapi.Page[domain.TestCycle], error)
	Create(ctx context.Context, req TestCycleRequest) (*zapi.Created, error)
	Update(ctx context.Context, key string, req TestCycleRequest) error
	Delete(ctx context.Context, key string) error
	Link(ctx context.Context, key, issueKey string) error
	AddTestCase(ctx context.Context, cycleKey, testCaseKey string) (*zapi.Created, error)
}

type TestExecutionService interface {
	Get(ctx context.Context, key string) (*domain.TestExecution, error)
	Search(ctx context.Context, q zapi.ExecutionQuery) (*zapi.Page[domain.TestExecution], error)
	Create(ctx context.Context, req ExecutionRequest) (*zapi.Created, error)
	Update(ctx context.Context, key string, req ExecutionRequest) error
	Delete(ctx context.Context, key string) error
	Summary(ctx context.Context, req SummaryRequest) (*domain.ExecutionSummary, error)
}

type SyncService interface {
	// Sync refreshes the cache for each project. A failing project does not
	// stop the others; the returned error joins every project failure.
	Sync(ctx context.Context, projectKeys []string) ([]*domain.SyncRun, error)
	Recent(ctx context.Context, limit int) ([]*domain.SyncRun, error)
}
