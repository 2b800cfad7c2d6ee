package oledmenu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/flavioheleno/oledmenu/image1bit"
)

const (
	// RowHeight is the height of one item row in pixels.
	RowHeight = 8

	titleHeight  = 2 * RowHeight
	statusHeight = RowHeight
)

// DefaultStatus is the status bar text until SetStatus is called.
const DefaultStatus = "UP/DN navigate  OK=select"

// Surface is the 1-bit display the menu composes its regions onto.
//
// surface.Framebuffer implements it on top of any periph display.Drawer.
type Surface interface {
	Init() error
	DrawBitmap(x, y int, src *image1bit.VerticalLSB, fg, bg image1bit.Bit) error
	FillRect(r image.Rectangle, c image1bit.Bit)
	Clear()
	Flush() error
}

// State is the navigation state of a Menu.
type State uint8

const (
	StateIdle State = iota
	StateVerticalScrolling
	StatePageTransitioning
)

func (s State) String() string {
	switch s {
	case StateVerticalScrolling:
		return "vertical-scrolling"
	case StatePageTransitioning:
		return "page-transitioning"
	default:
		return "idle"
	}
}

// Menu is a paginated item menu with animated navigation.
//
// It is driven from a single loop calling Tick then Refresh; it is not safe
// for concurrent use.
type Menu struct {
	surface Surface
	clock   Clock
	font    Font
	log     *slog.Logger

	width, height  int
	statusBar      bool
	fg, bg         image1bit.Bit
	layout         Layout
	charsPerColumn int
	charWidth      int
	wrap           bool
	invertSelected bool
	marquee        MarqueeOpts
	smoothScroll   ScrollOpts
	transition     TransitionOpts

	items    itemStore
	marquees marqueeArena
	scroll   verticalScroll
	trans    pageTransition

	title, subtitle           string
	titleAlign, subtitleAlign Alignment
	status                    string

	titleCanvas         *image1bit.VerticalLSB
	statusCanvas        *image1bit.VerticalLSB
	bodyLeft, bodyRight *image1bit.VerticalLSB
	prevLeft, prevRight *image1bit.VerticalLSB

	dirtyTitle, dirtyBodyL, dirtyBodyR, dirtyStatus bool

	initialized bool
	err         error
}

// New returns a Menu drawing on s. opts may be nil, in which case
// DefaultOpts is used. The display is not touched until Init.
func New(s Surface, opts *Opts) *Menu {
	if opts == nil {
		opts = DefaultOpts()
	}
	o := *opts
	o.normalize()

	m := &Menu{
		surface:        s,
		clock:          o.Clock,
		font:           o.Font,
		log:            o.Logger,
		width:          o.Width,
		height:         o.Height,
		statusBar:      o.StatusBar,
		fg:             image1bit.On,
		bg:             image1bit.Off,
		layout:         Layout{Rows: o.Rows, Columns: o.Columns},
		charsPerColumn: o.CharsPerColumn,
		charWidth:      o.CharWidth,
		wrap:           o.Wrap,
		invertSelected: o.InvertSelected,
		marquee:        o.Marquee,
		smoothScroll:   o.SmoothScroll,
		transition:     o.Transition,
		status:         DefaultStatus,
	}
	if m.clock == nil {
		m.clock = NewSystemClock()
	}
	if m.font == nil {
		m.font = DefaultFont()
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	if o.InvertColors {
		m.fg, m.bg = m.bg, m.fg
	}
	m.titleCanvas = image1bit.NewVerticalLSB(image.Rect(0, 0, m.width, titleHeight))
	m.statusCanvas = image1bit.NewVerticalLSB(image.Rect(0, 0, m.width, statusHeight))
	m.allocBody()
	m.marquees.resize(m.layout.MaxItemsPerPage(), m.clock.Millis())
	m.markAllDirty()
	return m
}

// allocBody sizes the body canvases and their snapshots to the current
// geometry. With one column the right canvas is empty.
func (m *Menu) allocBody() {
	h := m.bodyHeight()
	left := image.Rect(0, 0, m.width, h)
	right := image.Rectangle{}
	if m.layout.Columns == 2 {
		left = image.Rect(0, 0, m.width/2, h)
		right = image.Rect(0, 0, m.width-m.width/2, h)
	}
	m.bodyLeft = image1bit.NewVerticalLSB(left)
	m.bodyRight = image1bit.NewVerticalLSB(right)
	m.prevLeft = image1bit.NewVerticalLSB(left)
	m.prevRight = image1bit.NewVerticalLSB(right)
}

// Init initializes the display surface. A failure is latched: every
// rendering call becomes a no-op returning the same error, for the lifetime
// of the Menu.
func (m *Menu) Init() error {
	if m.err != nil {
		return m.err
	}
	if m.initialized {
		return nil
	}
	err := errors.New("no surface")
	if m.surface != nil {
		err = m.surface.Init()
	}
	if err != nil {
		m.err = &DisplayError{Op: "init", Err: err}
		m.log.Error("display initialization failed", "err", err)
		return m.err
	}
	m.initialized = true
	m.resetMarquees(m.clock.Millis())
	m.markAllDirty()
	m.log.Debug("menu initialized", "width", m.width, "height", m.height, "columns", m.layout.Columns, "rows", m.layout.Rows)
	return nil
}

// Initialized reports whether Init succeeded.
func (m *Menu) Initialized() bool {
	return m.initialized
}

// Err returns the latched initialization error, if any.
func (m *Menu) Err() error {
	return m.err
}

// ErrorMessage returns the latched error as text, or "".
func (m *Menu) ErrorMessage() string {
	if m.err == nil {
		return ""
	}
	return m.err.Error()
}

// State returns the current navigation state.
func (m *Menu) State() State {
	switch {
	case m.trans.active:
		return StatePageTransitioning
	case m.scroll.active():
		return StateVerticalScrolling
	default:
		return StateIdle
	}
}

// Layout returns the current page geometry.
func (m *Menu) Layout() Layout {
	return m.layout
}

// Page returns the page holding the selection.
func (m *Menu) Page() int {
	return m.layout.PageOf(m.items.selected)
}

// Tick advances every running animation to the clock's current time and
// marks the body dirty when something visible moved.
func (m *Menu) Tick() {
	if m.ready() != nil {
		return
	}
	now := m.clock.Millis()
	if m.trans.active {
		if now-m.trans.startMs >= m.trans.durationMs {
			m.finishTransition(now)
		}
		return
	}
	changed := m.stepVerticalScroll(now)
	if m.stepMarquees(now) {
		changed = true
	}
	if changed {
		m.MarkBodyDirty()
	}
}

// Next selects the following item.
func (m *Menu) Next() {
	m.move(+1)
}

// Previous selects the preceding item.
func (m *Menu) Previous() {
	m.move(-1)
}

// move is ignored while an animation is in flight.
func (m *Menu) move(dir int) {
	n := m.items.len()
	if n == 0 || m.State() != StateIdle {
		return
	}
	now := m.clock.Millis()
	cur := m.items.selected
	target := cur + dir
	transition := m.transition.Type != TransitionNone

	if target < 0 || target >= n {
		if !m.wrap {
			return
		}
		if dir > 0 {
			target = 0
		} else {
			target = n - 1
		}
		if target == cur {
			return
		}
		if transition && m.layout.PageOf(target) != m.layout.PageOf(cur) {
			m.startPageTransition(dir, target, now)
			return
		}
		m.commit(target, true, now)
		return
	}

	staysInPage := m.layout.PageOf(target) == m.layout.PageOf(cur)
	_, curCol := m.layout.Slot(cur)
	_, targetCol := m.layout.Slot(target)
	switch {
	// A step into the other column has no row to slide over, it commits
	case staysInPage && m.smoothScroll.Enabled && !transition && curCol == targetCol:
		m.startVerticalScroll(dir, now)
		m.MarkBodyDirty()
	case !staysInPage && transition:
		m.startPageTransition(dir, target, now)
	default:
		m.commit(target, !staysInPage, now)
	}
}

// commit moves the selection to i without animation.
func (m *Menu) commit(i int, pageChanged bool, now uint32) {
	m.items.selected = i
	if pageChanged || m.marquee.ResetOnIntraPageNav {
		m.resetMarquees(now)
	}
	m.MarkBodyDirty()
}

// SetSelection selects item i directly. Out of range indices, and calls made
// while an animation is in flight, are ignored.
func (m *Menu) SetSelection(i int) {
	cur := m.items.selected
	if i < 0 || i >= m.items.len() || i == cur || m.State() != StateIdle {
		return
	}
	m.commit(i, m.layout.PageOf(i) != m.layout.PageOf(cur), m.clock.Millis())
}

// cancelAnimations drops any scroll or transition in flight. A pending
// vertical scroll is discarded without committing its index.
func (m *Menu) cancelAnimations() {
	if m.scroll.active() {
		m.scroll.clear()
		m.MarkBodyDirty()
	}
	if m.trans.active {
		m.trans.active = false
		m.MarkBodyDirty()
	}
}

// SetTitle sets the first header line.
func (m *Menu) SetTitle(title string, a Alignment) {
	m.title, m.titleAlign = title, a
	m.MarkTitleDirty()
}

// SetSubtitle sets the second header line.
func (m *Menu) SetSubtitle(subtitle string, a Alignment) {
	m.subtitle, m.subtitleAlign = subtitle, a
	m.MarkTitleDirty()
}

// ClearTitle blanks both header lines.
func (m *Menu) ClearTitle() {
	m.title, m.subtitle = "", ""
	m.titleAlign, m.subtitleAlign = AlignLeft, AlignLeft
	m.MarkTitleDirty()
}

// Title returns the header lines.
func (m *Menu) Title() (title, subtitle string) {
	return m.title, m.subtitle
}

// SetStatus sets the status bar text.
func (m *Menu) SetStatus(text string) {
	m.status = text
	m.MarkStatusDirty()
}

// SetStatusBar enables or disables the bottom status line. The body grows
// or shrinks accordingly.
func (m *Menu) SetStatusBar(enabled bool) {
	if enabled == m.statusBar {
		return
	}
	m.statusBar = enabled
	m.relayout()
	m.markAllDirty()
}

// SetColumns sets the number of item columns; anything but 2 means 1.
func (m *Menu) SetColumns(columns int) {
	if columns != 2 {
		columns = 1
	}
	m.layout.Columns = columns
	m.relayout()
}

// SetRows sets the number of rows per page, at least 1.
func (m *Menu) SetRows(rows int) {
	m.layout.Rows = max(rows, 1)
	m.relayout()
}

// SetCharsPerColumn sets the clip width of an item in characters, at least 1.
func (m *Menu) SetCharsPerColumn(chars int) {
	m.charsPerColumn = max(chars, 1)
	m.relayout()
}

// relayout cancels animations, resizes the canvases and marquee slots to
// the current geometry and schedules a full body redraw.
func (m *Menu) relayout() {
	m.cancelAnimations()
	m.allocBody()
	m.marquees.resize(m.layout.MaxItemsPerPage(), m.clock.Millis())
	m.MarkBodyDirty()
	m.log.Debug("layout changed", "columns", m.layout.Columns, "rows", m.layout.Rows, "chars", m.charsPerColumn)
}

// SetWrap enables wrapping from the last item to the first and back.
func (m *Menu) SetWrap(wrap bool) {
	m.wrap = wrap
}

// SetInvertSelected draws the selected row inverted instead of outlined.
func (m *Menu) SetInvertSelected(invert bool) {
	m.invertSelected = invert
	m.MarkBodyDirty()
}

// SetInvertColors swaps foreground and background for every region.
func (m *Menu) SetInvertColors(invert bool) {
	m.fg, m.bg = image1bit.On, image1bit.Off
	if invert {
		m.fg, m.bg = m.bg, m.fg
	}
	m.markAllDirty()
}

// SetMarquee replaces the marquee settings. Zero speed counts as 1 px/s.
func (m *Menu) SetMarquee(o MarqueeOpts) {
	o.Speed = atLeastOne(o.Speed)
	if o.Mode > MarqueeAllOverflow {
		o.Mode = MarqueeSelectedOnly
	}
	m.marquee = o
	m.resetMarquees(m.clock.Millis())
	m.MarkBodyDirty()
}

// SetMarqueeEnabled turns horizontal scrolling of long items on or off.
func (m *Menu) SetMarqueeEnabled(enabled bool) {
	o := m.marquee
	o.Enabled = enabled
	m.SetMarquee(o)
}

// SetMarqueeMode selects which rows scroll horizontally.
func (m *Menu) SetMarqueeMode(mode MarqueeMode) {
	o := m.marquee
	o.Mode = mode
	m.SetMarquee(o)
}

// SetMarqueeSpeed sets the marquee speed in px/s.
func (m *Menu) SetMarqueeSpeed(pxPerSec uint32) {
	o := m.marquee
	o.Speed = pxPerSec
	m.SetMarquee(o)
}

// SetEdgePause sets the pause at either end of a marquee, and the longer
// pause used for the selected row.
func (m *Menu) SetEdgePause(ms, selectedMs uint32) {
	o := m.marquee
	o.EdgePauseMs, o.SelectedEdgePauseMs = ms, selectedMs
	m.SetMarquee(o)
}

// SetResetMarqueeOnIntraPageNav restarts every marquee on any selection
// change, not only page changes.
func (m *Menu) SetResetMarqueeOnIntraPageNav(reset bool) {
	m.marquee.ResetOnIntraPageNav = reset
}

// SetSmoothScroll configures the animated move between rows of a page.
func (m *Menu) SetSmoothScroll(enabled bool, pxPerSec uint32) {
	m.cancelAnimations()
	m.smoothScroll = ScrollOpts{Enabled: enabled, Speed: atLeastOne(pxPerSec)}
}

// SetTransition configures the effect used when the selection changes page.
func (m *Menu) SetTransition(t TransitionType, durationMs uint32) {
	if t > TransitionFade {
		t = TransitionNone
	}
	m.cancelAnimations()
	m.transition = TransitionOpts{Type: t, DurationMs: atLeastOne(durationMs)}
}

func (m *Menu) String() string {
	return fmt.Sprintf("oledmenu.Menu{%dx%d, %d items, %s}", m.width, m.height, m.items.len(), m.State())
}
