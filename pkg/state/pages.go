package state

// Pages accumulates result pages for one screen and tracks which one is on
// display. Pages already fetched are reused when scrolling back; advancing
// past the last stored page tells the caller a fetch is needed.
type Pages[T any] struct {
	pages [][]T
	index int
	total int
}

// Current returns the page on display, nil before the first Add.
func (p *Pages[T]) Current() []T {
	if len(p.pages) == 0 {
		return nil
	}
	return p.pages[p.index]
}

// Add stores a freshly fetched page and moves the display to it.
func (p *Pages[T]) Add(items []T, total int) {
	p.pages = append(p.pages, items)
	p.index = len(p.pages) - 1
	p.total = total
}

// Next advances to the following page. It returns true when the page is not
// stored yet and must be fetched; in that case the index does not move.
func (p *Pages[T]) Next() (needFetch bool) {
	if p.index+1 < len(p.pages) {
		p.index++
		return false
	}
	return true
}

// Prev steps back one page, reusing the stored copy. No-op on the first page.
func (p *Pages[T]) Prev() {
	if p.index > 0 {
		p.index--
	}
}

// NextOffset is the item offset the next fetch should request.
func (p *Pages[T]) NextOffset(limit int) int {
	return len(p.pages) * limit
}

// Exhausted reports whether every item the server has is already stored.
func (p *Pages[T]) Exhausted(limit int) bool {
	return p.total > 0 && p.NextOffset(limit) >= p.total
}

// Reset drops all stored pages, for a fresh query.
func (p *Pages[T]) Reset() {
	p.pages = nil
	p.index = 0
	p.total = 0
}

// Len reports the number of stored pages.
func (p *Pages[T]) Len() int { return len(p.pages) }

// Total reports the server-side item count, 0 if unknown.
func (p *Pages[T]) Total() int { return p.total }
