package oledmenu

// rowMarquee is the horizontal scroll state of one row slot.
//
// A row that fits is settled (offset 0, no hold). An overflowing row scrolls
// left to -(textWidth-colWidth), holds, scrolls back to 0, holds, and repeats.
type rowMarquee struct {
	offset int    // px, in [-(textWidth-colWidth), 0]
	dir    int    // -1 left, +1 right
	holdMs uint32 // remaining pause at an edge
	motion
}

func (r *rowMarquee) reset(now uint32) {
	r.offset = 0
	r.dir = -1
	r.holdMs = 0
	r.restart(now)
}

func (r *rowMarquee) settled() bool {
	return r.offset == 0 && r.holdMs == 0
}

// step advances an overflowing row and reports whether its offset moved.
func (r *rowMarquee) step(textWidth, colWidth int, now, speed, edgePauseMs uint32) bool {
	minOffset := -(textWidth - colWidth)
	prev := r.offset
	// A borrowed text may have been shortened in place
	if r.offset < minOffset {
		r.offset = minOffset
	}

	if r.holdMs > 0 {
		dt := now - r.lastMs
		if dt < r.holdMs {
			r.holdMs -= dt
			r.restart(now)
			return r.offset != prev
		}
		// Time left over after the pause is spent scrolling
		r.restart(r.lastMs + r.holdMs)
		r.holdMs = 0
	}

	px := r.advance(now, speed)
	if px == 0 {
		return r.offset != prev
	}
	r.offset += r.dir * px

	switch {
	case r.offset <= minOffset:
		r.offset = minOffset
		r.dir = +1
		r.holdMs = edgePauseMs
		r.restart(now)
	case r.offset >= 0:
		r.offset = 0
		r.dir = -1
		r.holdMs = edgePauseMs
		r.restart(now)
	}
	return r.offset != prev
}

// marqueeArena keeps one rowMarquee per slot of the page. Its backing array
// only grows, to the largest rows*columns configured so far, so layout
// changes do not reallocate once that size was seen.
type marqueeArena struct {
	slots []rowMarquee
}

// resize sets the active slot count to n and resets every slot.
func (a *marqueeArena) resize(n int, now uint32) {
	if n < 0 {
		n = 0
	}
	if n > cap(a.slots) {
		a.slots = make([]rowMarquee, n)
	}
	a.slots = a.slots[:n]
	a.reset(now)
}

func (a *marqueeArena) reset(now uint32) {
	for i := range a.slots {
		a.slots[i].reset(now)
	}
}

func (a *marqueeArena) slot(i int) *rowMarquee {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	return &a.slots[i]
}

func (m *Menu) resetMarquees(now uint32) {
	m.marquees.reset(now)
}

// marqueeOffset returns the horizontal offset to draw row slot ip with.
func (m *Menu) marqueeOffset(ip int) int {
	if s := m.marquees.slot(ip); s != nil {
		return s.offset
	}
	return 0
}

// marqueeApplies reports whether item i is eligible to scroll horizontally.
func (m *Menu) marqueeApplies(i int) bool {
	if !m.marquee.Enabled {
		return false
	}
	return m.marquee.Mode == MarqueeAllOverflow || i == m.items.selected
}

// stepMarquees advances every visible row slot and reports whether any
// visible offset changed.
func (m *Menu) stepMarquees(now uint32) bool {
	n := m.items.len()
	if !m.marquee.Enabled || n == 0 {
		return false
	}

	page := m.layout.PageOf(m.items.selected)
	s, e := m.layout.PageStart(page), m.layout.PageEnd(page, n)
	changed := false

	for i := s; i <= e; i++ {
		st := m.marquees.slot(i - s)
		if st == nil {
			continue
		}
		_, col := m.layout.Slot(i)
		textWidth := m.font.Width(m.items.at(i))
		colWidth := m.columnWidth(col)
		if !m.marqueeApplies(i) || textWidth <= colWidth {
			if st.offset != 0 {
				changed = true
			}
			st.reset(now)
			continue
		}

		pause := m.marquee.EdgePauseMs
		if i == m.items.selected {
			pause = m.marquee.SelectedEdgePauseMs
		}
		if st.step(textWidth, colWidth, now, m.marquee.Speed, pause) {
			changed = true
		}
	}
	return changed
}
