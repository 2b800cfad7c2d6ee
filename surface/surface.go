// Package surface composes 1-bit canvases into a framebuffer and presents it
// on a periph.io display.Drawer.
//
// A Framebuffer is opened lazily: Init calls the opener supplied to Open (or
// returns the device passed to New), sizes the framebuffer to the device
// bounds and clears the panel. Every drawing call only touches memory; Flush
// hands the whole frame to the device, which is expected to transmit only
// what changed (the ssd1306 driver does).
package surface

import (
	"errors"
	"fmt"
	"image"

	"github.com/flavioheleno/oledmenu/image1bit"
	"periph.io/x/conn/v3/display"
)

// ErrNotOpen is returned by Flush before a successful Init.
var ErrNotOpen = errors.New("surface: display not initialized")

// Framebuffer is an in-memory 1-bit frame presented on a display.Drawer.
type Framebuffer struct {
	open func() (display.Drawer, error)
	dev  display.Drawer
	img  *image1bit.VerticalLSB
}

// New returns a Framebuffer presenting on dev.
func New(dev display.Drawer) *Framebuffer {
	return Open(func() (display.Drawer, error) {
		if dev == nil {
			return nil, errors.New("surface: no display device")
		}
		return dev, nil
	})
}

// Open returns a Framebuffer whose device is created by open during Init.
// Bus setup and controller initialization failures surface from Init.
func Open(open func() (display.Drawer, error)) *Framebuffer {
	return &Framebuffer{open: open}
}

// Init opens the device, allocates a framebuffer matching its bounds and
// presents a blank frame.
func (f *Framebuffer) Init() error {
	dev, err := f.open()
	if err != nil {
		return err
	}
	r := dev.Bounds()
	if r.Empty() {
		return fmt.Errorf("surface: %s reports empty bounds", dev)
	}
	f.dev = dev
	f.img = image1bit.NewVerticalLSB(r)
	return f.Flush()
}

// Bounds returns the framebuffer bounds, empty before Init.
func (f *Framebuffer) Bounds() image.Rectangle {
	if f.img == nil {
		return image.Rectangle{}
	}
	return f.img.Rect
}

// Image exposes the composed frame.
func (f *Framebuffer) Image() *image1bit.VerticalLSB {
	return f.img
}

// DrawBitmap copies src to (x, y), writing lit pixels as fg and dark pixels as bg.
func (f *Framebuffer) DrawBitmap(x, y int, src *image1bit.VerticalLSB, fg, bg image1bit.Bit) error {
	if f.img == nil {
		return ErrNotOpen
	}
	f.img.Blit(image.Pt(x, y), src, fg, bg)
	return nil
}

// FillRect fills r with c.
func (f *Framebuffer) FillRect(r image.Rectangle, c image1bit.Bit) {
	if f.img != nil {
		f.img.FillRect(r, c)
	}
}

// DrawRect outlines r with c.
func (f *Framebuffer) DrawRect(r image.Rectangle, c image1bit.Bit) {
	if f.img != nil {
		f.img.DrawRect(r, c)
	}
}

// Clear blanks the framebuffer.
func (f *Framebuffer) Clear() {
	if f.img != nil {
		f.img.Fill(image1bit.Off)
	}
}

// Flush presents the framebuffer on the device.
func (f *Framebuffer) Flush() error {
	if f.dev == nil {
		return ErrNotOpen
	}
	return f.dev.Draw(f.img.Rect, f.img, image.Point{})
}

// String returns a string representation of the surface.
func (f *Framebuffer) String() string {
	if f.dev == nil {
		return "surface.Framebuffer{closed}"
	}
	return fmt.Sprintf("surface.Framebuffer{%s}", f.dev)
}
