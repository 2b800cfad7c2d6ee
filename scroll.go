package oledmenu

// verticalScroll animates the selection moving one row within a page.
type verticalScroll struct {
	dir    int // -1 up, +1 down, 0 idle
	offset int // px travelled, sign follows dir
	motion
}

func (v *verticalScroll) active() bool {
	return v.dir != 0
}

func (v *verticalScroll) clear() {
	v.dir = 0
	v.offset = 0
}

func (m *Menu) startVerticalScroll(dir int, now uint32) {
	m.scroll = verticalScroll{dir: dir}
	m.scroll.restart(now)
	m.log.Debug("vertical scroll started", "from", m.items.selected, "dir", dir)
}

// stepVerticalScroll advances the scroll and commits the pending index once a
// full row was travelled. It reports whether anything visible changed.
func (m *Menu) stepVerticalScroll(now uint32) bool {
	if !m.scroll.active() {
		return false
	}
	px := m.scroll.advance(now, m.smoothScroll.Speed)
	if px == 0 {
		return false
	}
	m.scroll.offset += m.scroll.dir * px

	if abs(m.scroll.offset) < RowHeight {
		return true
	}

	// The visible row set changed: commit, then restart every marquee
	m.items.selected += m.scroll.dir
	m.scroll.clear()
	m.resetMarquees(now)
	m.log.Debug("vertical scroll committed", "index", m.items.selected)
	return true
}

// bodyShift is the vertical offset the page rows are drawn with. While
// scrolling, the rows move against the direction of travel so the target row
// slides into the highlight of the row being left.
func (m *Menu) bodyShift() int {
	if !m.scroll.active() {
		return 0
	}
	return -m.scroll.offset
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
