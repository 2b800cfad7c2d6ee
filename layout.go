package oledmenu

// Layout maps item indices onto pages of Rows×Columns slots.
// Every method is pure and safe with a zero-sized layout or an empty list.
type Layout struct {
	Rows    int
	Columns int
}

// MaxItemsPerPage returns the number of slots on a page.
func (l Layout) MaxItemsPerPage() int {
	if l.Rows <= 0 || l.Columns <= 0 {
		return 0
	}
	return l.Rows * l.Columns
}

// TotalPages returns ceil(n / MaxItemsPerPage), or 0 for a zero-sized layout.
func (l Layout) TotalPages(n int) int {
	mpp := l.MaxItemsPerPage()
	if mpp == 0 || n <= 0 {
		return 0
	}
	return (n + mpp - 1) / mpp
}

// PageOf returns the page holding item i.
func (l Layout) PageOf(i int) int {
	mpp := l.MaxItemsPerPage()
	if mpp == 0 || i < 0 {
		return 0
	}
	return i / mpp
}

// PageStart returns the index of the first item on page p.
func (l Layout) PageStart(p int) int {
	if p < 0 {
		return 0
	}
	return p * l.MaxItemsPerPage()
}

// PageEnd returns the index of the last item on page p of an n item list,
// or 0 when the list is empty.
func (l Layout) PageEnd(p, n int) int {
	mpp := l.MaxItemsPerPage()
	if mpp == 0 || n <= 0 {
		return 0
	}
	end := l.PageStart(p) + mpp - 1
	if end >= n {
		return n - 1
	}
	return end
}

// VisibleCount returns how many items page p of an n item list shows.
func (l Layout) VisibleCount(p, n int) int {
	if n <= 0 || l.MaxItemsPerPage() == 0 {
		return 0
	}
	s, e := l.PageStart(p), l.PageEnd(p, n)
	if s >= n || e < s {
		return 0
	}
	return e - s + 1
}

// Slot returns the row and column of item i within its page.
// Items fill a page row by row, left to right.
func (l Layout) Slot(i int) (row, col int) {
	mpp := l.MaxItemsPerPage()
	if mpp == 0 || i < 0 {
		return 0, 0
	}
	ip := i % mpp
	return ip / l.Columns, ip % l.Columns
}

// AlignOffset returns the column at which a label of textLen characters starts
// in a field of width columns.
func AlignOffset(textLen, width int, a Alignment) int {
	var off int
	switch a {
	case AlignCenter:
		off = (width - textLen) / 2
	case AlignRight:
		off = width - textLen
	default:
		return 0
	}
	if off < 0 {
		off = 0
	}
	if off > width {
		off = width
	}
	return off
}
