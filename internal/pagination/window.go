// Package pagination derives bounded page-link windows from the
// server's page envelope, so large result sets never render every
// page number.
package pagination

// WindowSize is the maximum number of page links shown at once.
const WindowSize = 5

// Window describes which pagination controls to render for a given
// current page. Pages holds 0-based page indices.
type Window struct {
	Pages []int

	ShowFirst bool // shortcut to page 0
	ShowPrev  bool
	ShowNext  bool
	ShowLast  bool // shortcut to the final page

	LeadingGap  bool // pages exist before the window
	TrailingGap bool // pages exist after the window
}

// Compute centers a WindowSize-wide window on current, shifting it at
// either edge so it always holds WindowSize pages when enough exist.
// A single page (or none) yields an empty window: nothing renders.
func Compute(current, total int) Window {
	if total <= 1 {
		return Window{}
	}
	if current < 0 {
		current = 0
	}
	if current > total-1 {
		current = total - 1
	}

	start := current - WindowSize/2
	if start < 0 {
		start = 0
	}
	end := start + WindowSize
	if end > total {
		end = total
	}
	if end-start < WindowSize {
		start = end - WindowSize
		if start < 0 {
			start = 0
		}
	}

	pages := make([]int, 0, end-start)
	for p := start; p < end; p++ {
		pages = append(pages, p)
	}

	return Window{
		Pages:       pages,
		ShowFirst:   current > 1,
		ShowPrev:    current > 0,
		ShowNext:    current < total-1,
		ShowLast:    current < total-2,
		LeadingGap:  start > 0,
		TrailingGap: end < total,
	}
}

// TotalPages is the ceiling of totalElements / size, with a floor of
// one page. Used when the envelope's own totalPages is absent.
func TotalPages(totalElements int64, size int) int {
	if size <= 0 || totalElements <= 0 {
		return 1
	}
	return int((totalElements + int64(size) - 1) / int64(size))
}
