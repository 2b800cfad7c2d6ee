package oledmenu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/flavioheleno/oledmenu/image1bit"
)

func frameOf(m *Menu) *image1bit.VerticalLSB {
	return m.surface.(*countingSurface).Image()
}

func framesEqual(a, b *Menu) bool {
	return bytes.Equal(frameOf(a).Pix, frameOf(b).Pix)
}

// bodyMatches reports whether the body area of the frame shows canvas
// shifted horizontally by dx, with background elsewhere.
func bodyMatches(t *testing.T, m *Menu, canvas *image1bit.VerticalLSB, dx int) bool {
	t.Helper()
	fb := frameOf(m)
	body := m.bodyRect()
	for y := 0; y < body.Dy(); y++ {
		for x := 0; x < body.Dx(); x++ {
			want := image1bit.Off
			if sx := x - dx; sx >= 0 && sx < canvas.Rect.Dx() {
				want = canvas.BitAt(sx, y)
			}
			if got := fb.BitAt(x, body.Min.Y+y); got != want {
				t.Logf("pixel (%d,%d) = %v, want %v", x, y, got, want)
				return false
			}
		}
	}
	return true
}

func TestRefreshIdempotent(t *testing.T) {
	clk := &fakeClock{}
	m, s := newTestMenu(t, testOpts(clk))
	m.SetItems(itemList(5))
	if err := m.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	s.blits, s.flushes = 0, 0
	m.MarkBodyDirty()
	if err := m.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if s.blits != 1 || s.flushes != 1 {
		t.Errorf("first Refresh: blits=%d flushes=%d, want 1 and 1", s.blits, s.flushes)
	}
	if err := m.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if s.blits != 1 || s.flushes != 2 {
		t.Errorf("second Refresh: blits=%d flushes=%d, want 1 and 2", s.blits, s.flushes)
	}
	if m.dirtyTitle || m.dirtyBodyL || m.dirtyBodyR || m.dirtyStatus {
		t.Error("dirty flags left set")
	}
}

func TestShowBlitsEveryRegion(t *testing.T) {
	tests := []struct {
		name      string
		columns   int
		statusBar bool
		want      int
	}{
		{"one column", 1, false, 2},
		{"two columns", 2, false, 3},
		{"two columns and status", 2, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOpts(&fakeClock{})
			o.Columns = tt.columns
			o.StatusBar = tt.statusBar
			m, s := newTestMenu(t, o)
			s.blits = 0

			m.Show()
			if s.blits != tt.want {
				t.Errorf("Show() blits = %d, want %d", s.blits, tt.want)
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	clk := &fakeClock{}
	m, _ := newTestMenu(t, testOpts(clk))
	a := []string{"Network", "Display", "Sound", "About"}
	b := []string{"Yes", "No"}

	m.SetItems(a)
	m.Show()
	first := frameOf(m).Clone()

	m.SetItems(b)
	m.Refresh()
	if bytes.Equal(frameOf(m).Pix, first.Pix) {
		t.Fatal("list B rendered the same frame as list A")
	}

	m.SetItems(a)
	m.Refresh()
	if !bytes.Equal(frameOf(m).Pix, first.Pix) {
		t.Error("list A rendered differently the second time")
	}
}

func TestRenderSelectionHighlight(t *testing.T) {
	clk := &fakeClock{}
	m, _ := newTestMenu(t, testOpts(clk))
	m.SetItems(itemList(5))
	m.SetSelection(2)
	m.Show()
	fb := frameOf(m)

	// Row 2 spans y 32..39, the column is 16*6 px wide
	outline := []struct {
		x, y int
		want image1bit.Bit
	}{
		{50, 32, image1bit.On},
		{50, 39, image1bit.On},
		{95, 35, image1bit.On},
		{96, 35, image1bit.Off},
		{50, 35, image1bit.Off},
		{50, 24, image1bit.Off},
	}
	for _, p := range outline {
		if got := fb.BitAt(p.x, p.y); got != p.want {
			t.Errorf("outline: pixel (%d,%d) = %v, want %v", p.x, p.y, got, p.want)
		}
	}

	m.SetInvertSelected(true)
	m.Refresh()
	inverted := []struct {
		x, y int
		want image1bit.Bit
	}{
		{50, 35, image1bit.On},
		{0, 32, image1bit.Off}, // lit glyph pixel of "I"
		{96, 35, image1bit.Off},
		{50, 24, image1bit.Off},
	}
	for _, p := range inverted {
		if got := fb.BitAt(p.x, p.y); got != p.want {
			t.Errorf("inverted: pixel (%d,%d) = %v, want %v", p.x, p.y, got, p.want)
		}
	}
}

func TestRenderScrollingShiftsRows(t *testing.T) {
	clk := &fakeClock{}
	o := testOpts(clk)
	o.SmoothScroll = ScrollOpts{Enabled: true, Speed: 100}
	m, _ := newTestMenu(t, o)
	m.SetItems(itemList(5))
	m.SetSelection(1)
	m.Show()

	ref, _ := newTestMenu(t, testOpts(&fakeClock{}))
	ref.SetItems(itemList(5))
	ref.SetSelection(1)
	ref.Show()

	m.Next()
	clk.now = 40 // 4 px of 8
	m.Tick()
	m.Refresh()
	if m.State() != StateVerticalScrolling || m.scroll.offset != 4 {
		t.Fatalf("state %v offset %d, want vertical-scrolling at 4", m.State(), m.scroll.offset)
	}

	// The highlight stays on row 1 (y 8..15) while the text moves up 4 px
	got, want := m.bodyLeft, ref.bodyLeft
	outline := func(y int) bool { return y == 8 || y == 15 }
	moved := false
	for y := 0; y < got.Rect.Dy(); y++ {
		for x := 1; x < 36; x++ {
			if outline(y) || outline(y+4) {
				continue
			}
			w := image1bit.Off
			if y+4 < want.Rect.Dy() {
				w = want.BitAt(x, y+4)
			}
			if g := got.BitAt(x, y); g != w {
				t.Fatalf("pixel (%d,%d) = %v, want %v from 4 px below", x, y, g, w)
			}
			if got.BitAt(x, y) != want.BitAt(x, y) {
				moved = true
			}
		}
	}
	if !moved {
		t.Error("row pixels identical to the idle page mid-scroll")
	}
	for _, y := range []int{8, 15} {
		if got.BitAt(50, y) != image1bit.On {
			t.Errorf("highlight edge (50,%d) off mid-scroll", y)
		}
	}

	// Committed: rows back in place, highlight on row 2
	run(m, clk, 60, 10)
	ref.SetSelection(2)
	ref.Refresh()
	if m.State() != StateIdle || !bytes.Equal(m.bodyLeft.Pix, ref.bodyLeft.Pix) {
		t.Errorf("after commit state %v, body differs from idle page at 2", m.State())
	}
}

func TestRenderTitleAlignment(t *testing.T) {
	m, _ := newTestMenu(t, testOpts(&fakeClock{}))
	m.SetTitle("AB", AlignRight)
	m.SetSubtitle("AB", AlignCenter)
	m.Refresh()
	fb := frameOf(m)

	// 21 text columns: right puts "AB" at column 19, center at column 9
	if fb.BitAt(114, 0) != image1bit.On || fb.BitAt(0, 0) != image1bit.Off {
		t.Error("title not right aligned")
	}
	if fb.BitAt(54, 8) != image1bit.On || fb.BitAt(0, 8) != image1bit.Off {
		t.Error("subtitle not centered")
	}

	m.ClearTitle()
	m.Refresh()
	if fb.BitAt(114, 0) != image1bit.Off || fb.BitAt(54, 8) != image1bit.Off {
		t.Error("ClearTitle left pixels behind")
	}
	if title, sub := m.Title(); title != "" || sub != "" {
		t.Errorf("Title() = %q, %q after ClearTitle", title, sub)
	}
}

func TestRenderStatusBar(t *testing.T) {
	o := testOpts(&fakeClock{})
	o.StatusBar = true
	m, _ := newTestMenu(t, o)
	m.Show()
	fb := frameOf(m)

	if fb.BitAt(0, 56) != image1bit.On {
		t.Error("default status text not drawn")
	}
	m.SetStatus("")
	m.Refresh()
	if fb.BitAt(0, 56) != image1bit.Off {
		t.Error("status not cleared")
	}

	m.SetStatusBar(false)
	m.SetStatus("UP")
	if m.dirtyStatus {
		t.Error("status marked dirty while the bar is disabled")
	}
}

func TestRenderInvertColors(t *testing.T) {
	o := testOpts(&fakeClock{})
	o.InvertColors = true
	m, _ := newTestMenu(t, o)
	m.Show()
	fb := frameOf(m)

	if fb.BitAt(127, 0) != image1bit.On || fb.BitAt(120, 60) != image1bit.On {
		t.Error("background not lit with inverted colors")
	}

	m.SetInvertColors(false)
	m.Refresh()
	if fb.BitAt(127, 0) != image1bit.Off || fb.BitAt(120, 60) != image1bit.Off {
		t.Error("background still lit after restoring colors")
	}
}

func TestPageTransitionFadeFrames(t *testing.T) {
	clk := &fakeClock{}
	o := testOpts(clk)
	o.Rows = 2
	o.Transition = TransitionOpts{Type: TransitionFade, DurationMs: 300}
	m, _ := newTestMenu(t, o)
	m.SetItems(itemList(4))
	m.SetSelection(1)
	m.Show()
	m.Next()

	tests := []struct {
		at      uint32
		showNew bool
	}{
		{0, false},
		{140, false}, // phase 20, threshold 14
		{150, true},  // phase 0, threshold 15
		{290, true},  // phase 20, threshold 29
	}
	for _, tt := range tests {
		clk.now = tt.at
		if err := m.Refresh(); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		want := m.prevLeft
		if tt.showNew {
			want = m.bodyLeft
		}
		if !bodyMatches(t, m, want, 0) {
			t.Errorf("at %d ms: showNew=%v frame mismatch", tt.at, tt.showNew)
		}
	}
	if m.State() != StatePageTransitioning {
		t.Errorf("State() = %v, want still transitioning", m.State())
	}
}

func TestPageTransitionSlideFrames(t *testing.T) {
	clk := &fakeClock{}
	o := testOpts(clk)
	o.Rows = 2
	o.Transition = TransitionOpts{Type: TransitionSlide, DurationMs: 300}
	m, _ := newTestMenu(t, o)
	m.SetItems(itemList(4))
	m.SetSelection(1)
	m.Show()
	m.Next()

	clk.now = 150 // 32 of 64 px
	m.Refresh()
	fb := frameOf(m)
	body := m.bodyRect()
	for y := 0; y < body.Dy(); y++ {
		for x := 0; x < body.Dx(); x++ {
			var want image1bit.Bit
			if x < 32 {
				want = m.prevLeft.BitAt(x+32, y)
			} else {
				want = m.bodyLeft.BitAt(x-32, y)
			}
			if got := fb.BitAt(x, body.Min.Y+y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	clk.now = 300
	m.Refresh()
	if m.State() != StateIdle {
		t.Errorf("State() = %v after the last frame, want idle", m.State())
	}
	if !m.dirtyBodyL {
		t.Error("body not dirty after the transition")
	}
}

func TestPageTransitionSnapshotsPreviousPage(t *testing.T) {
	clk := &fakeClock{}
	o := testOpts(clk)
	o.Rows = 2
	o.Columns = 2
	o.Transition = TransitionOpts{Type: TransitionSlide, DurationMs: 300}
	m, _ := newTestMenu(t, o)
	m.SetItems(itemList(6))
	m.SetSelection(3)
	m.Show()

	left, right := m.bodyLeft.Clone(), m.bodyRight.Clone()
	m.Next()
	if !bytes.Equal(m.prevLeft.Pix, left.Pix) || !bytes.Equal(m.prevRight.Pix, right.Pix) {
		t.Error("snapshot differs from the page on screen")
	}
	if bytes.Equal(m.bodyLeft.Pix, left.Pix) {
		t.Error("new page not rendered ahead of the first frame")
	}
}

func TestFlushErrorDoesNotLatch(t *testing.T) {
	m, s := newTestMenu(t, testOpts(&fakeClock{}))
	s.flushErr = errors.New("i2c: nack")

	err := m.Refresh()
	if !IsDisplayError(err) || !errors.Is(err, s.flushErr) {
		t.Errorf("Refresh() error = %v, want wrapped flush error", err)
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v, flush errors must not latch", m.Err())
	}

	s.flushErr = nil
	if err := m.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func TestClear(t *testing.T) {
	m, s := newTestMenu(t, testOpts(&fakeClock{}))
	m.SetTitle("Menu", AlignLeft)
	m.SetItems(itemList(3))
	m.Show()

	flushes := s.flushes
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	for _, b := range frameOf(m).Pix {
		if b != 0 {
			t.Fatal("frame not blank after Clear")
		}
	}
	if s.flushes != flushes+1 {
		t.Errorf("Clear() flushed %d times, want 1", s.flushes-flushes)
	}
	if !m.dirtyTitle || !m.dirtyBodyL {
		t.Error("regions not scheduled for redraw after Clear")
	}
}
