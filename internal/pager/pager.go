// Package pager slices a fully cached collection into fixed-size pages.
// Pagination is purely a display concern here: the feeds hold complete
// collections, so no server round trip happens on a page change.
package pager

// TotalPages returns the page count for n items, never less than 1.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp forces page into [1, TotalPages(n, pageSize)].
func Clamp(page, n, pageSize int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(n, pageSize); page > max {
		return max
	}
	return page
}

// Slice returns the items visible on the (clamped) page and the page index
// actually used.
func Slice[T any](items []T, page, pageSize int) ([]T, int) {
	page = Clamp(page, len(items), pageSize)
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil, page
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page
}

// Filter returns the items matching pred, in their original order.
func Filter[T any](items []T, pred func(T) bool) []T {
	if pred == nil {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Pager keeps page and filter state for one view over a source collection.
type Pager[T any] struct {
	pageSize int
	page     int
	filter   func(T) bool
	items    []T
}

// New builds a pager positioned on page 1.
func New[T any](pageSize int) *Pager[T] {
	if pageSize <= 0 {
		pageSize = 40
	}
	return &Pager[T]{pageSize: pageSize, page: 1}
}

// SetItems replaces the source collection. The current page is re-clamped
// against the new filtered size.
func (p *Pager[T]) SetItems(items []T) {
	p.items = items
	p.page = Clamp(p.page, len(p.filtered()), p.pageSize)
}

// SetFilter replaces the filter predicate and resets to page 1.
func (p *Pager[T]) SetFilter(pred func(T) bool) {
	p.filter = pred
	p.page = 1
}

// SetPage moves to the given page, clamped to the valid range.
func (p *Pager[T]) SetPage(page int) {
	p.page = Clamp(page, len(p.filtered()), p.pageSize)
}

// Next advances one page; moving past the last page is a no-op.
func (p *Pager[T]) Next() {
	p.SetPage(p.page + 1)
}

// Prev goes back one page; moving before page 1 is a no-op.
func (p *Pager[T]) Prev() {
	p.SetPage(p.page - 1)
}

// Page returns the currently visible slice.
func (p *Pager[T]) Page() []T {
	visible, page := Slice(p.filtered(), p.page, p.pageSize)
	p.page = page
	return visible
}

// PageIndex returns the current 1-based page number.
func (p *Pager[T]) PageIndex() int {
	return p.page
}

// TotalPages returns the number of pages over the filtered collection.
func (p *Pager[T]) TotalPages() int {
	return TotalPages(len(p.filtered()), p.pageSize)
}

// FilteredCount returns how many items pass the current filter.
func (p *Pager[T]) FilteredCount() int {
	return len(p.filtered())
}

func (p *Pager[T]) filtered() []T {
	return Filter(p.items, p.filter)
}
