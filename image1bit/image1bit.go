// Package image1bit provides a 1-bit image format in SSD1306 page layout.
//
// Each byte holds 8 vertically stacked pixels, bit 0 is the top pixel.
// This package provides the Bit color type and the VerticalLSB image implementation.
package image1bit

import (
	"image"
	"image/color"
)

// Bit represents a monochrome pixel: On is lit, Off is dark.
type Bit bool

const (
	Off Bit = false
	On  Bit = true
)

// RGBA converts the Bit to standard RGBA (white when On, black when Off).
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// ITU-R 601 luma, thresholded at half intensity
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// VerticalLSB is a 1-bit image stored in 8-pixel tall pages.
// Byte (page*Stride + x) holds column x of that page, bit 0 = top row of the page.
type VerticalLSB struct {
	Pix    []byte          // Pixel data (8 vertical pixels per byte)
	Stride int             // Bytes per page (image width)
	Rect   image.Rectangle // Image bounds
}

// NewVerticalLSB creates a new VerticalLSB image with the specified bounds.
// Heights that are not a multiple of 8 get a partially used last page.
func NewVerticalLSB(r image.Rectangle) *VerticalLSB {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &VerticalLSB{Rect: r}
	}

	pages := (h + 7) / 8
	return &VerticalLSB{
		Pix:    make([]byte, w*pages),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *VerticalLSB) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *VerticalLSB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *VerticalLSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit of the pixel at (x, y).
func (p *VerticalLSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, mask := p.pixOffset(x, y)
	return p.Pix[offset]&mask != 0
}

// Set sets the color of the pixel at (x, y).
func (p *VerticalLSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *VerticalLSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Fill sets every pixel to b.
func (p *VerticalLSB) Fill(b Bit) {
	v := byte(0x00)
	if b {
		v = 0xFF
	}
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// FillRect sets every pixel of r (clipped to the image) to b.
func (p *VerticalLSB) FillRect(r image.Rectangle, b Bit) {
	r = r.Intersect(p.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.SetBit(x, y, b)
		}
	}
}

// DrawRect draws the one pixel wide outline of r in b.
// Parts of the outline outside the image are skipped.
func (p *VerticalLSB) DrawRect(r image.Rectangle, b Bit) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		p.SetBit(x, r.Min.Y, b)
		p.SetBit(x, r.Max.Y-1, b)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		p.SetBit(r.Min.X, y, b)
		p.SetBit(r.Max.X-1, y, b)
	}
}

// InvertRect flips every pixel of r (clipped to the image).
func (p *VerticalLSB) InvertRect(r image.Rectangle) {
	r = r.Intersect(p.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			offset, mask := p.pixOffset(x, y)
			p.Pix[offset] ^= mask
		}
	}
}

// Blit copies src so that its top-left corner lands on at. Lit source pixels
// are written as fg and dark ones as bg; pixels falling outside p are dropped.
func (p *VerticalLSB) Blit(at image.Point, src *VerticalLSB, fg, bg Bit) {
	sb := src.Rect
	dst := sb.Sub(sb.Min).Add(at).Intersect(p.Rect)
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		sy := y - at.Y + sb.Min.Y
		for x := dst.Min.X; x < dst.Max.X; x++ {
			if src.BitAt(x-at.X+sb.Min.X, sy) {
				p.SetBit(x, y, fg)
			} else {
				p.SetBit(x, y, bg)
			}
		}
	}
}

// CopyFrom overwrites p with src. Images with identical bounds are copied
// byte for byte, otherwise the overlapping area is copied pixel by pixel.
func (p *VerticalLSB) CopyFrom(src *VerticalLSB) {
	if src.Rect == p.Rect && len(src.Pix) == len(p.Pix) {
		copy(p.Pix, src.Pix)
		return
	}
	r := p.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.SetBit(x, y, src.BitAt(x, y))
		}
	}
}

// Clone returns a deep copy of p.
func (p *VerticalLSB) Clone() *VerticalLSB {
	c := &VerticalLSB{
		Pix:    make([]byte, len(p.Pix)),
		Stride: p.Stride,
		Rect:   p.Rect,
	}
	copy(c.Pix, p.Pix)
	return c
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
// Memory layout: each byte contains 8 pixels vertically.
// Bit 0 = top row of the page, bit 7 = bottom row
func (p *VerticalLSB) pixOffset(x, y int) (offset int, mask byte) {
	py := y - p.Rect.Min.Y
	offset = (py/8)*p.Stride + (x - p.Rect.Min.X)
	mask = 1 << uint(py&7)
	return
}
