// Package paginate slices sorted result sets into fixed-size pages.
package paginate

// Page is one window over a sorted slice
type Page[T any] struct {
	Items       []T
	CurrentPage int // 1-based, always within [1, TotalPages]
	TotalPages  int // Never below 1, even for an empty set
	TotalCount  int
}

// TotalPages returns max(1, ceil(count / pageSize))
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, totalPages]. Stale page numbers from cached
// buttons are corrected instead of rejected.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the requested page of items. A non-positive pageSize puts
// everything on a single page. Items is never nil.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	count := len(items)
	if pageSize <= 0 {
		pageSize = max(count, 1)
	}

	totalPages := TotalPages(count, pageSize)
	current := ClampPage(page, totalPages)

	start := (current - 1) * pageSize
	end := min(start+pageSize, count)

	window := make([]T, 0, max(end-start, 0))
	if start < end {
		window = append(window, items[start:end]...)
	}

	return Page[T]{
		Items:       window,
		CurrentPage: current,
		TotalPages:  totalPages,
		TotalCount:  count,
	}
}
