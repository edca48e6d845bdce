package client

import (
	"errors"

	"pierres.shop/app/pkg/view"
)

var ErrPageOutOfRange = errors.New("client: page out of range")

type PageDescriptor struct {
	Index   int
	Current bool
}

// Pager drives a paginated listing. It only reports page and limit changes
// through its callbacks; refetching is the caller's job.
type Pager struct {
	info            view.Pagination
	onPageChange    func(page int)
	onPerPageChange func(limit int)
}

func NewPager(info view.Pagination, onPageChange, onPerPageChange func(int)) (*Pager, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if onPageChange == nil {
		onPageChange = func(int) {}
	}
	if onPerPageChange == nil {
		onPerPageChange = func(int) {}
	}
	return &Pager{info: info, onPageChange: onPageChange, onPerPageChange: onPerPageChange}, nil
}

func (p *Pager) Info() view.Pagination { return p.info }

// Pages lists 1..TotalPages in ascending order.
func (p *Pager) Pages() []PageDescriptor {
	out := make([]PageDescriptor, 0, p.info.TotalPages)
	for i := 1; i <= p.info.TotalPages; i++ {
		out = append(out, PageDescriptor{Index: i, Current: i == p.info.CurrentPage})
	}
	return out
}

func (p *Pager) PrevDisabled() bool { return p.info.CurrentPage <= 1 }

// NextDisabled is also true for an empty listing (TotalPages == 0).
func (p *Pager) NextDisabled() bool { return p.info.CurrentPage >= p.info.TotalPages }

// Select reports page through onPageChange. Selecting the current page is a
// no-op.
func (p *Pager) Select(page int) error {
	if page == p.info.CurrentPage {
		return nil
	}
	if page < 1 || page > p.info.TotalPages {
		return ErrPageOutOfRange
	}
	p.onPageChange(page)
	return nil
}

func (p *Pager) Prev() {
	if !p.PrevDisabled() {
		p.onPageChange(p.info.CurrentPage - 1)
	}
}

func (p *Pager) Next() {
	if !p.NextDisabled() {
		p.onPageChange(p.info.CurrentPage + 1)
	}
}

// SelectLimit reports a new page size through onPerPageChange. The current
// page is left alone.
func (p *Pager) SelectLimit(limit int) error {
	if !view.ValidLimit(limit) {
		return view.ErrInvalidLimit
	}
	p.onPerPageChange(limit)
	return nil
}
