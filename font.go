package oledmenu

import (
	"image"
	"image/color"

	"github.com/flavioheleno/oledmenu/image1bit"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Font measures and rasterizes single-line text.
type Font interface {
	// Width returns the advance of text in pixels.
	Width(text string) int
	// Draw renders text with its cell top-left at (x, y), touching only
	// pixels inside clip.
	Draw(dst *image1bit.VerticalLSB, clip image.Rectangle, x, y int, text string, c image1bit.Bit)
}

// TinyFont draws with a tinyfont glyph set.
type TinyFont struct {
	Face     tinyfont.Fonter
	Baseline int // distance from the top of the cell to the baseline
}

// DefaultFont returns the 6 px advance font used when Opts.Font is nil.
func DefaultFont() *TinyFont {
	return &TinyFont{Face: &tinyfont.Org01, Baseline: 6}
}

func (f *TinyFont) Width(text string) int {
	_, outbox := tinyfont.LineWidth(f.Face, text)
	return int(outbox)
}

func (f *TinyFont) Draw(dst *image1bit.VerticalLSB, clip image.Rectangle, x, y int, text string, c image1bit.Bit) {
	t := &glyphTarget{dst: dst, clip: clip.Intersect(dst.Rect), c: c}
	if t.clip.Empty() || text == "" {
		return
	}
	tinyfont.WriteLine(t, f.Face, int16(x), int16(y+f.Baseline), text, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
}

// glyphTarget lets tinyfont plot into a canvas, clipped and in a fixed bit.
type glyphTarget struct {
	dst  *image1bit.VerticalLSB
	clip image.Rectangle
	c    image1bit.Bit
}

var _ drivers.Displayer = (*glyphTarget)(nil)

func (g *glyphTarget) Size() (x, y int16) {
	return int16(g.dst.Rect.Max.X), int16(g.dst.Rect.Max.Y)
}

func (g *glyphTarget) SetPixel(x, y int16, _ color.RGBA) {
	p := image.Pt(int(x), int(y))
	if p.In(g.clip) {
		g.dst.SetBit(p.X, p.Y, g.c)
	}
}

func (g *glyphTarget) Display() error {
	return nil
}
