package rest

import (
	"context"
	"fmt"
)

// DefaultMaxPages is the page-count safety limit for paginated listings.
const DefaultMaxPages = 10

// PageOptions controls a paginated listing.
type PageOptions struct {
	// MaxPages caps the number of pages fetched. Zero means DefaultMaxPages;
	// anything below zero is treated as 1.
	MaxPages int
	// PageSize is passed to vendors that accept one. Zero uses the vendor default.
	PageSize int
}

// Limit returns the effective page limit.
func (o PageOptions) Limit() int {
	switch {
	case o.MaxPages == 0:
		return DefaultMaxPages
	case o.MaxPages < 1:
		return 1
	default:
		return o.MaxPages
	}
}

// Page is the accumulated result of a paginated listing.
type Page[T any] struct {
	Items []T `json:"items"`
	// Pages is the number of pages fetched.
	Pages int `json:"pages"`
	// NextCursor is the cursor that was not followed, if any.
	NextCursor string `json:"next_cursor,omitempty"`
	// Truncated is true when the page limit stopped a cursor that was not exhausted.
	Truncated bool `json:"truncated"`
}

// FetchFunc fetches one page. An empty cursor requests the first page.
// It returns the page items and the next cursor, empty when exhausted.
type FetchFunc[T any] func(ctx context.Context, cursor string) ([]T, string, error)

// Paginate follows cursors until they run out or the page limit is hit.
// On error the items gathered so far are returned alongside it.
func Paginate[T any](ctx context.Context, opts PageOptions, fetch FetchFunc[T]) (*Page[T], error) {
	limit := opts.Limit()
	page := &Page[T]{Items: []T{}}
	seen := make(map[string]bool)
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return page, err
		}

		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return page, fmt.Errorf("fetch page %d: %w", page.Pages+1, err)
		}
		page.Pages++
		page.Items = append(page.Items, items...)

		if next == "" {
			page.NextCursor = ""
			return page, nil
		}
		if next == cursor || seen[next] {
			return page, fmt.Errorf("%w: %q", ErrRepeatedCursor, next)
		}
		seen[next] = true

		if page.Pages >= limit {
			page.NextCursor = next
			page.Truncated = true
			return page, nil
		}
		cursor = next
	}
}
