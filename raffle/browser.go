package raffle

// Browser is the grid cursor: current page plus the available-only filter.
// Changing the filter invalidates the page position and rewinds to page 1.
type Browser struct {
	pool          *Pool
	availableOnly bool
	page          int
	pageSize      int
}

func NewBrowser(pool *Pool, pageSize int) *Browser {
	return &Browser{pool: pool, page: 1, pageSize: pageSize}
}

func (b *Browser) AvailableOnly() bool {
	return b.availableOnly
}

func (b *Browser) SetAvailableOnly(v bool) {
	if b.availableOnly == v {
		return
	}
	b.availableOnly = v
	b.page = 1
}

func (b *Browser) PageIndex() int {
	return b.page
}

// SetPage accepts any positive index; out-of-range pages simply render
// empty.
func (b *Browser) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	b.page = page
}

func (b *Browser) Next() {
	if b.page < b.TotalPages() {
		b.page++
	}
}

func (b *Browser) Prev() {
	if b.page > 1 {
		b.page--
	}
}

func (b *Browser) TotalPages() int {
	n := len(b.pool.ListNumbers(b.availableOnly))
	if n == 0 {
		return 0
	}
	return (n + b.pageSize - 1) / b.pageSize
}

// Page returns the numbers of the current page.
func (b *Browser) Page() []int32 {
	return Paginate(b.pool.ListNumbers(b.availableOnly), b.page, b.pageSize)
}
