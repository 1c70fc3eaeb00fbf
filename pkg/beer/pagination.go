package beer

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// PageLister lists one page of resources at a time.
type PageLister[T any] interface {
	List(ctx context.Context, filter *Filter) (*Page[T], error)
}

// PaginationOptions controls multi-page fetches.
type PaginationOptions struct {
	PageSize int
	MaxPages int
}

// DefaultPaginationOptions returns default pagination options.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.DefaultPageSize,
		MaxPages: 0,
	}
}

// startPage returns the 1-based page a walk starts from.
func startPage(filter *Filter) int {
	if filter != nil {
		if page, ok := filter.PageNumber.Get(); ok && page > 0 {
			return page
		}
	}

	return 1
}

// PaginationIterator walks every item across pages. Request page numbers are
// 1-based while the page envelope reports a 0-based number, so the iterator
// tracks the requested page itself.
type PaginationIterator[T any] struct {
	ctx     context.Context
	lister  PageLister[T]
	filter  *Filter
	page    int
	current *Page[T]
	index   int
	done    bool
	err     error
}

// NewPaginationIterator creates an iterator starting at the filter's page.
func NewPaginationIterator[T any](ctx context.Context, lister PageLister[T], filter *Filter) *PaginationIterator[T] {
	return &PaginationIterator[T]{
		ctx:    ctx,
		lister: lister,
		filter: filter,
		page:   startPage(filter),
	}
}

// HasNext reports whether Next will return an item or an error.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.err != nil {
		return true
	}

	for !it.done && (it.current == nil || it.index >= len(it.current.Content)) {
		if it.current != nil && !it.current.HasNext() {
			it.done = true

			break
		}

		err := it.fetch()
		if err != nil {
			it.err = err

			return true
		}
	}

	return !it.done
}

// Next returns the next item.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		return zero, ErrNoMoreItems
	}

	if it.err != nil {
		err := it.err
		it.err = nil
		it.done = true

		return zero, err
	}

	item := it.current.Content[it.index]
	it.index++

	return item, nil
}

// All collects every remaining item.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach calls fn for every remaining item and stops at the first error.
func (it *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *PaginationIterator[T]) fetch() error {
	page, err := it.lister.List(it.ctx, it.filter.WithPage(it.page))
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", it.page, err)
	}

	it.current = page
	it.index = 0
	it.page++

	if len(page.Content) == 0 {
		it.done = true
	}

	return nil
}

// FetchAllPages collects every item from consecutive pages.
func FetchAllPages[T any](ctx context.Context, lister PageLister[T], filter *Filter, options *PaginationOptions) ([]T, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	current := filter.WithPage(startPage(filter))
	if options.PageSize > 0 && !current.PageSize.IsSet() {
		current.PageSize = Some(options.PageSize)
	}

	var items []T

	for fetched := 0; options.MaxPages == 0 || fetched < options.MaxPages; fetched++ {
		pageNumber, _ := current.PageNumber.Get()

		page, err := lister.List(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		items = append(items, page.Content...)

		if !page.HasNext() || len(page.Content) == 0 {
			break
		}

		current = current.WithPage(pageNumber + 1)
	}

	return items, nil
}

// PageResult is a single page delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Page  int
	Err   error
}

// StreamPages fetches pages in the background and delivers them in order.
// The channel is closed after the last page, the first error, or when ctx is
// done.
func StreamPages[T any](ctx context.Context, lister PageLister[T], filter *Filter, options *PaginationOptions) <-chan PageResult[T] {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		current := filter.WithPage(startPage(filter))
		if options.PageSize > 0 && !current.PageSize.IsSet() {
			current.PageSize = Some(options.PageSize)
		}

		for fetched := 0; options.MaxPages == 0 || fetched < options.MaxPages; fetched++ {
			pageNumber, _ := current.PageNumber.Get()

			page, err := lister.List(ctx, current)

			result := PageResult[T]{Page: pageNumber, Err: err}
			if err == nil {
				result.Items = page.Content
			}

			select {
			case results <- result:
			case <-ctx.Done():
				return
			}

			if err != nil || !page.HasNext() || len(page.Content) == 0 {
				return
			}

			current = current.WithPage(pageNumber + 1)
		}
	}()

	return results
}
