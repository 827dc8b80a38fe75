package zapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectAll_StopsOnLastPage(t *testing.T) {
	var starts []int
	fetch := func(ctx context.Context, startAt int) (*Page[int], error) {
		starts = append(starts, startAt)
		switch startAt {
		case 0:
			return &Page[int]{Values: []int{1, 2}}, nil
		case 2:
			return &Page[int]{Values: []int{3, 4}}, nil
		default:
			return &Page[int]{Values: []int{5}, IsLast: true}, nil
		}
	}

	all, err := CollectAll(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, all)
	assert.Equal(t, []int{0, 2, 4}, starts)
}

func TestCollectAll_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, startAt int) (*Page[string], error) {
		calls++
		if startAt == 0 {
			return &Page[string]{Values: []string{"a"}}, nil
		}
		return &Page[string]{}, nil
	}

	all, err := CollectAll(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
	assert.Equal(t, 2, calls)
}

func TestCollectAll_StopsAtTotal(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, startAt int) (*Page[int], error) {
		calls++
		return &Page[int]{Values: []int{startAt}, Total: 2}, nil
	}

	all, err := CollectAll(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, all)
	assert.Equal(t, 2, calls)
}

func TestCollectAll_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(ctx context.Context, startAt int) (*Page[int], error) {
		if startAt > 0 {
			return nil, boom
		}
		return &Page[int]{Values: []int{1}}, nil
	}

	all, err := CollectAll(context.Background(), fetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1}, all)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 50, clampPageSize(0, 50))
	assert.Equal(t, 50, clampPageSize(-3, 0))
	assert.Equal(t, 10, clampPageSize(10, 50))
	assert.Equal(t, 100, clampPageSize(1000, 50))
}
