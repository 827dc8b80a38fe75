package repository

import (
	"context"

	"github.com/alexanderramin/zscale/internal/domain"
)

type TestCaseRepo interface {
	Upsert(ctx context.Context, tc *domain.TestCase) error
	GetByKey(ctx context.Context, key string) (*domain.TestCase, error)
	List(ctx context.Context) ([]*domain.TestCase, error)
	ListByProject(ctx context.Context, projectKey string) ([]*domain.TestCase, error)
	Delete(ctx context.Context, key string) error
	DeleteByProject(ctx context.Context, projectKey string) error
}

type TestCycleRepo interface {
	Upsert(ctx context.Context, tc *domain.TestCycle) error
	GetByKey(ctx context.Context, key string) (*domain.TestCycle, error)
	ListByProject(ctx context.Context, projectKey string) ([]*domain.TestCycle, error)
	DeleteByProject(ctx context.Context, projectKey string) error
}

type TestExecutionRepo interface {
	Upsert(ctx context.Context, te *domain.TestExecution) error
	ListByCycle(ctx context.Context, cycleKey string) ([]*domain.TestExecution, error)
	ListByProject(ctx context.Context, projectKey string) ([]*domain.TestExecution, error)
	DeleteByProject(ctx context.Context, projectKey string) error
}

type SyncRunRepo interface {
	Create(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, run *domain.SyncRun) error
	Latest(ctx context.Context, projectKey string) (*domain.SyncRun, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error)
}
