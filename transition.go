package oledmenu

import (
	"errors"

	"github.com/flavioheleno/oledmenu/image1bit"
)

// fadePeriodMs is the duty cycle period of the fade transition.
const fadePeriodMs = 30

// pageTransition animates the body from a snapshot of the previous page to
// the freshly rendered new page.
type pageTransition struct {
	active     bool
	dir        int // +1 next (content moves left), -1 previous
	startMs    uint32
	durationMs uint32
}

// startPageTransition snapshots the current body, commits target and renders
// the new page into the live canvases ahead of the first frame.
func (m *Menu) startPageTransition(dir, target int, now uint32) {
	if m.dirtyBodyL || m.dirtyBodyR {
		m.drawBody()
	}
	m.prevLeft.CopyFrom(m.bodyLeft)
	m.prevRight.CopyFrom(m.bodyRight)

	from := m.items.selected
	m.items.selected = target
	m.resetMarquees(now)
	m.drawBody()

	m.trans = pageTransition{
		active:     true,
		dir:        dir,
		startMs:    now,
		durationMs: m.transition.DurationMs,
	}
	m.log.Debug("page transition started", "type", m.transition.Type, "from", from, "to", target)
}

func (m *Menu) finishTransition(now uint32) {
	m.trans.active = false
	m.resetMarquees(now)
	m.MarkBodyDirty()
	m.log.Debug("page transition finished", "index", m.items.selected)
}

// renderTransitionFrame draws the body for this cycle while a transition runs.
func (m *Menu) renderTransitionFrame(now uint32) error {
	elapsed := now - m.trans.startMs
	duration := m.trans.durationMs
	if elapsed > duration {
		elapsed = duration
	}

	body := m.bodyRect()
	m.surface.FillRect(body, m.bg)

	var errs []error
	blit := func(x int, canvas canvasPair) {
		errs = append(errs, m.surface.DrawBitmap(x, body.Min.Y, canvas.left, m.fg, m.bg))
		if m.layout.Columns == 2 {
			errs = append(errs, m.surface.DrawBitmap(x+m.width/2, body.Min.Y, canvas.right, m.fg, m.bg))
		}
	}
	prev := canvasPair{m.prevLeft, m.prevRight}
	next := canvasPair{m.bodyLeft, m.bodyRight}

	switch m.transition.Type {
	case TransitionSlide:
		halfW := m.width / 2
		progress := int(uint64(elapsed) * uint64(halfW) / uint64(duration))
		blit(-m.trans.dir*progress, prev)
		blit(m.trans.dir*(halfW-progress), next)
	case TransitionFade:
		threshold := uint32(uint64(elapsed) * fadePeriodMs / uint64(duration))
		if elapsed%fadePeriodMs < threshold {
			blit(0, next)
		} else {
			blit(0, prev)
		}
	default:
		blit(0, next)
	}

	if now-m.trans.startMs >= duration {
		m.finishTransition(now)
	}
	return errors.Join(errs...)
}

type canvasPair struct {
	left, right *image1bit.VerticalLSB
}
