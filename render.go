package oledmenu

import (
	"errors"
	"image"

	"github.com/flavioheleno/oledmenu/image1bit"
)

// MarkTitleDirty schedules the title and subtitle for the next Refresh.
func (m *Menu) MarkTitleDirty() {
	m.dirtyTitle = true
}

// MarkBodyDirty schedules the item area for the next Refresh.
func (m *Menu) MarkBodyDirty() {
	m.dirtyBodyL = true
	m.dirtyBodyR = m.layout.Columns == 2
}

// MarkStatusDirty schedules the status bar for the next Refresh. It does
// nothing while the status bar is disabled.
func (m *Menu) MarkStatusDirty() {
	m.dirtyStatus = m.statusBar
}

func (m *Menu) markAllDirty() {
	m.MarkTitleDirty()
	m.MarkBodyDirty()
	m.MarkStatusDirty()
}

// ready returns the error rendering entry points answer with when they
// cannot draw.
func (m *Menu) ready() error {
	if m.err != nil {
		return m.err
	}
	if !m.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Show redraws every region unconditionally.
func (m *Menu) Show() error {
	if err := m.ready(); err != nil {
		return err
	}
	m.markAllDirty()
	return m.Refresh()
}

// Refresh redraws the dirty regions, or the current page transition frame,
// then flushes the framebuffer once.
//
// A region stays dirty when its blit fails, so it is retried next cycle.
func (m *Menu) Refresh() error {
	if err := m.ready(); err != nil {
		return err
	}
	now := m.clock.Millis()
	var errs []error

	if m.dirtyTitle && !m.trans.active {
		m.drawTitle()
		if err := m.blit(0, 0, m.titleCanvas); err != nil {
			errs = append(errs, err)
		} else {
			m.dirtyTitle = false
		}
	}

	if m.trans.active {
		if err := m.renderTransitionFrame(now); err != nil {
			errs = append(errs, err)
		}
	} else if m.dirtyBodyL || m.dirtyBodyR {
		m.drawBody()
		body := m.bodyRect()
		if m.dirtyBodyL {
			if err := m.blit(body.Min.X, body.Min.Y, m.bodyLeft); err != nil {
				errs = append(errs, err)
			} else {
				m.dirtyBodyL = false
			}
		}
		if m.dirtyBodyR && m.layout.Columns == 2 {
			if err := m.blit(body.Min.X+m.width/2, body.Min.Y, m.bodyRight); err != nil {
				errs = append(errs, err)
			} else {
				m.dirtyBodyR = false
			}
		}
	}

	if m.statusBar && m.dirtyStatus && !m.trans.active {
		m.drawStatus()
		if err := m.blit(0, m.height-statusHeight, m.statusCanvas); err != nil {
			errs = append(errs, err)
		} else {
			m.dirtyStatus = false
		}
	}

	if err := m.surface.Flush(); err != nil {
		m.log.Error("flush failed", "err", err)
		errs = append(errs, &DisplayError{Op: "flush", Err: err})
	}
	return errors.Join(errs...)
}

// Clear blanks the display. The next Refresh redraws every region.
func (m *Menu) Clear() error {
	if err := m.ready(); err != nil {
		return err
	}
	m.surface.Clear()
	m.markAllDirty()
	return m.Flush()
}

// Flush presents the framebuffer without redrawing anything.
func (m *Menu) Flush() error {
	if err := m.ready(); err != nil {
		return err
	}
	if err := m.surface.Flush(); err != nil {
		m.log.Error("flush failed", "err", err)
		return &DisplayError{Op: "flush", Err: err}
	}
	return nil
}

func (m *Menu) blit(x, y int, canvas *image1bit.VerticalLSB) error {
	if err := m.surface.DrawBitmap(x, y, canvas, m.fg, m.bg); err != nil {
		return &DisplayError{Op: "blit", Err: err}
	}
	return nil
}

// bodyRect is the item area in display coordinates.
func (m *Menu) bodyRect() image.Rectangle {
	return image.Rect(0, titleHeight, m.width, titleHeight+m.bodyHeight())
}

func (m *Menu) bodyHeight() int {
	h := m.height - titleHeight
	if m.statusBar {
		h -= statusHeight
	}
	return max(h, 0)
}

// columnWidth is the pixel width text of column col is clipped to.
func (m *Menu) columnWidth(col int) int {
	canvas := m.bodyLeft
	if col == 1 {
		canvas = m.bodyRight
	}
	return min(m.charsPerColumn*m.charWidth, canvas.Rect.Dx())
}

// textColumns is the number of character cells across the display.
func (m *Menu) textColumns() int {
	return m.width / m.charWidth
}

func (m *Menu) drawTitle() {
	c := m.titleCanvas
	c.Fill(image1bit.Off)
	x := AlignOffset(runeLen(m.title), m.textColumns(), m.titleAlign) * m.charWidth
	m.font.Draw(c, c.Rect, x, 0, m.title, image1bit.On)
	x = AlignOffset(runeLen(m.subtitle), m.textColumns(), m.subtitleAlign) * m.charWidth
	m.font.Draw(c, c.Rect, x, RowHeight, m.subtitle, image1bit.On)
}

func (m *Menu) drawStatus() {
	c := m.statusCanvas
	c.Fill(image1bit.Off)
	m.font.Draw(c, c.Rect, 0, 0, m.status, image1bit.On)
}

// drawBody renders the selected page into the body canvases.
func (m *Menu) drawBody() {
	m.bodyLeft.Fill(image1bit.Off)
	m.bodyRight.Fill(image1bit.Off)

	n := m.items.len()
	if n == 0 {
		return
	}
	page := m.layout.PageOf(m.items.selected)
	s, e := m.layout.PageStart(page), m.layout.PageEnd(page, n)

	shift := m.bodyShift()
	for i := s; i <= e; i++ {
		row, col := m.layout.Slot(i)
		canvas := m.canvasFor(col)
		colWidth := m.columnWidth(col)
		y := row*RowHeight + shift
		clip := image.Rect(0, y, colWidth, y+RowHeight)

		text := m.items.at(i)
		if m.marqueeApplies(i) && m.font.Width(text) > colWidth {
			m.font.Draw(canvas, clip, m.marqueeOffset(i-s), y, text, image1bit.On)
		} else {
			m.font.Draw(canvas, clip, 0, y, clipRunes(text, m.charsPerColumn), image1bit.On)
		}
	}

	row, col := m.layout.Slot(m.items.selected)
	r := image.Rect(0, row*RowHeight, m.columnWidth(col), (row+1)*RowHeight)
	if m.invertSelected {
		m.canvasFor(col).InvertRect(r)
	} else {
		m.canvasFor(col).DrawRect(r, image1bit.On)
	}
}

func (m *Menu) canvasFor(col int) *image1bit.VerticalLSB {
	if col == 1 && m.layout.Columns == 2 {
		return m.bodyRight
	}
	return m.bodyLeft
}
