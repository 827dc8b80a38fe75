package zapi

import (
	"context"
	"net/url"
	"strconv"
)

// Page is one page of a paginated search.
type Page[T any] struct {
	StartAt    int    `json:"startAt"`
	MaxResults int    `json:"maxResults"`
	Total      int    `json:"total"`
	IsLast     bool   `json:"isLast"`
	Next       string `json:"next,omitempty"`
	Values     []T    `json:"values"`
}

// maxPages bounds CollectAll against servers that never report a last page.
const maxPages = 10000

// PageFunc fetches the page starting at startAt.
type PageFunc[T any] func(ctx context.Context, startAt int) (*Page[T], error)

// CollectAll walks pages from offset zero until the server reports the last
// page, an empty page, or the running offset reaches Total.
func CollectAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T
	startAt := 0
	for i := 0; i < maxPages; i++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		page, err := fetch(ctx, startAt)
		if err != nil {
			return all, err
		}
		all = append(all, page.Values...)
		if page.IsLast || len(page.Values) == 0 {
			break
		}
		startAt += len(page.Values)
		if page.Total > 0 && startAt >= page.Total {
			break
		}
	}
	return all, nil
}

// clampPageSize keeps maxResults within 1..MaxPageSize, substituting def for
// non-positive values.
func clampPageSize(n, def int) int {
	if n <= 0 {
		n = def
	}
	if n <= 0 {
		n = DefaultConfig().PageSize
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	return n
}

func pageParams(params url.Values, startAt, maxResults, def int) url.Values {
	params.Set("maxResults", strconv.Itoa(clampPageSize(maxResults, def)))
	if startAt > 0 {
		params.Set("startAt", strconv.Itoa(startAt))
	}
	return params
}

func mapPage[W, T any](in *Page[W], conv func(W) T) *Page[T] {
	out := &Page[T]{
		StartAt:    in.StartAt,
		MaxResults: in.MaxResults,
		Total:      in.Total,
		IsLast:     in.IsLast,
		Next:       in.Next,
		Values:     make([]T, 0, len(in.Values)),
	}
	for _, v := range in.Values {
		out.Values = append(out.Values, conv(v))
	}
	return out
}
