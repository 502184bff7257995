package board

import (
	"github.com/amishk599/jobdash/internal/model"
)

// Pager owns the current page number and the totals of the last applied
// result. totalPages is always max(1, ceil(total/pageSize)).
type Pager struct {
	pageSize   int
	page       int
	total      int
	totalPages int
}

// NewPager starts at page 1 of 1.
func NewPager(pageSize int) *Pager {
	return &Pager{pageSize: pageSize, page: 1, totalPages: 1}
}

func (p *Pager) Page() int       { return p.page }
func (p *Pager) Total() int      { return p.total }
func (p *Pager) TotalPages() int { return p.totalPages }
func (p *Pager) PageSize() int   { return p.pageSize }

// Reset returns to page 1.
func (p *Pager) Reset() { p.page = 1 }

// Next advances one page. It reports false at the last page.
func (p *Pager) Next() bool { return p.GoTo(p.page + 1) }

// Prev goes back one page. It reports false at page 1.
func (p *Pager) Prev() bool { return p.GoTo(p.page - 1) }

// GoTo moves to n clamped into [1, totalPages] and reports whether the page
// changed.
func (p *Pager) GoTo(n int) bool {
	if n < 1 {
		n = 1
	}
	if n > p.totalPages {
		n = p.totalPages
	}
	if n == p.page {
		return false
	}
	p.page = n
	return true
}

// Apply records the totals of res. If the result shrank below the current
// page, the page is clamped to the new last page and Apply reports true so
// the caller can refetch it. An empty result set always lands on page 1.
func (p *Pager) Apply(res model.PageResult) (refetch bool) {
	p.total = res.Total
	p.totalPages = model.TotalPages(res.Total, p.pageSize)
	if p.page > p.totalPages {
		p.page = p.totalPages
		return p.total > 0
	}
	return false
}
