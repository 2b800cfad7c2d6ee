// Package ssd1306 controls a SSD1306 monochrome OLED display via I²C or SPI.
//
// The SSD1306 is a 1-bit OLED controller supporting up to 128x64 pixels.
// Common display resolutions are 128x64 and 128x32.
//
// See the examples for how to use this package.
package ssd1306

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/flavioheleno/oledmenu/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultAddr is the usual I²C address of SSD1306 modules (0x3D with SA0 high).
const DefaultAddr = 0x3C

// Opts is the configuration for the SSD1306 display.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 128, must be between 1 and 128)
	H int // Height (default: 64, must be a multiple of 8 and ≤64)

	// Rotation and COM pin wiring
	Rotated       bool // 180° rotation
	Sequential    bool // Sequential COM pin configuration (most 128x32 panels)
	SwapTopBottom bool // Left/right COM remap

	// Optional hardware reset pin
	RST gpio.PinIO // Reset pin (optional, nil if not used)
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W > 128 {
		return errors.New("ssd1306: width must be between 1 and 128")
	}
	if o.H <= 0 || o.H > 64 || o.H%8 != 0 {
		return errors.New("ssd1306: height must be a multiple of 8 between 8 and 64")
	}
	return nil
}

// Dev is the device handle for the SSD1306 display.
type Dev struct {
	// Communication
	c       conn.Conn   // I²C or SPI connection
	dc      gpio.PinOut // Data/Command pin (SPI only)
	rst     gpio.PinIO  // Reset pin (optional)
	overI2C bool

	// Display geometry
	rect image.Rectangle

	// Pixel buffers
	buffer []byte                 // Current frame, in GDDRAM page layout
	next   *image1bit.VerticalLSB // For lazy double buffering
	lastDm image1bit.VerticalLSB  // Last displayed frame for differential updates

	// State
	halted bool
}

// NewI2C creates a new SSD1306 device connected via I²C at addr.
//
// opts can be nil to use defaults (128x64 display).
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 128, H: 64}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	d := newDev(&i2c.Dev{Bus: b, Addr: addr}, nil, opts)
	d.overI2C = true

	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// NewSPI creates a new SSD1306 device connected via 4-wire SPI.
//
// The SPI port is configured for 8MHz, Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
// The dc (Data/Command) GPIO pin must be provided and configured as an output.
//
// opts can be nil to use defaults (128x64 display).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 128, H: 64}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("ssd1306: SPI mode requires a DC pin")
	}

	// The SSD1306 serial interface tops out at 10MHz
	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}

	d := newDev(c, dc, opts)
	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(c conn.Conn, dc gpio.PinOut, opts *Opts) *Dev {
	return &Dev{
		c:      c,
		dc:     dc,
		rst:    opts.RST,
		rect:   image.Rect(0, 0, opts.W, opts.H),
		buffer: make([]byte, opts.W*opts.H/8),
	}
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	// Hardware reset sequence (if RST pin is provided)
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)

		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST high: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cmds := []byte{
		0xAE,       // Display OFF
		0xD5, 0x80, // Clock divider and oscillator frequency
		0xA8, byte(opts.H - 1), // MUX ratio
		0xD3, 0x00, // Display offset
		0x40,       // Start line 0
		0x8D, 0x14, // Enable charge pump
		0x20, 0x00, // Horizontal addressing mode
	}

	// Segment remap and COM scan direction: adjust for rotation
	segRemap, comScan := byte(0xA1), byte(0xC8)
	if opts.Rotated {
		segRemap, comScan = 0xA0, 0xC0
	}

	// COM pins hardware configuration
	comPins := byte(0x12)
	if opts.Sequential {
		comPins = 0x02
	}
	if opts.SwapTopBottom {
		comPins |= 0x20
	}

	cmds = append(cmds,
		segRemap,
		comScan,
		0xDA, comPins,
		0x81, 0xCF, // Contrast
		0xD9, 0xF1, // Pre-charge period
		0xDB, 0x40, // VCOMH deselect level
		0x2E, // Deactivate hardware scroll
		0xA4, // Display follows RAM
		0xA6, // Normal display mode
	)

	if err := d.sendCommands(cmds); err != nil {
		return err
	}

	// Clear display RAM
	if err := d.writeFullFrame(d.buffer); err != nil {
		return err
	}

	// Turn display ON
	return d.sendCommand(0xAF)
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.sendCommands([]byte{cmd})
}

// sendCommands sends a slice of command bytes.
func (d *Dev) sendCommands(cmds []byte) error {
	if d.overI2C {
		// Control byte 0x00: stream of commands
		return d.c.Tx(append([]byte{0x00}, cmds...), nil)
	}
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(cmds, nil)
}

// sendData sends a slice of data bytes.
func (d *Dev) sendData(data []byte) error {
	if d.overI2C {
		// Control byte 0x40: stream of GDDRAM data
		return d.c.Tx(append([]byte{0x40}, data...), nil)
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

// writeRect writes page data to the columns [x, x+width) of pages [page, page+pages).
func (d *Dev) writeRect(x, page, width, pages int, pixels []byte) error {
	commands := []byte{
		0x21, byte(x), byte(x + width - 1), // Column address
		0x22, byte(page), byte(page + pages - 1), // Page address
	}

	if err := d.sendCommands(commands); err != nil {
		return err
	}

	return d.sendData(pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write writes raw pixel data to the display in GDDRAM page format.
// The data must be exactly d.rect.Dx() * d.rect.Dy() / 8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errors.New("ssd1306: halted")
	}
	if len(pixels) != len(d.buffer) {
		return 0, errors.New("ssd1306: invalid buffer size")
	}
	if err := d.writeFullFrame(pixels); err != nil {
		return 0, err
	}
	copy(d.buffer, pixels)
	if d.next != nil {
		copy(d.next.Pix, pixels)
		copy(d.lastDm.Pix, pixels)
	}
	return len(pixels), nil
}

// Draw draws an image onto the display with differential update optimization.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}

	// Clip to display bounds
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Lazy-initialize double buffer
	if d.next == nil {
		d.next = image1bit.NewVerticalLSB(d.rect)
		copy(d.next.Pix, d.buffer)
		d.lastDm = image1bit.VerticalLSB{
			Pix:    make([]byte, len(d.buffer)),
			Stride: d.next.Stride,
			Rect:   d.rect,
		}
		copy(d.lastDm.Pix, d.buffer)
	}

	// Fast path: source already in page layout at full size
	if srcImg, ok := src.(*image1bit.VerticalLSB); ok && dst == d.rect && sp == (image.Point{}) && srcImg.Rect == d.rect {
		copy(d.next.Pix, srcImg.Pix)
	} else {
		draw.Draw(d.next, dst, src, sp, draw.Src)
	}

	// Calculate minimal bounding box of changed columns and pages
	minCol, maxCol, minPage, maxPage := d.calculateDiff()
	if minCol > maxCol {
		// No changes
		return nil
	}

	changedData := d.extractRegion(minCol, maxCol, minPage, maxPage)

	if err := d.writeRect(minCol, minPage, maxCol-minCol+1, maxPage-minPage+1, changedData); err != nil {
		return err
	}

	// Update stored buffers
	copy(d.buffer, d.next.Pix)
	copy(d.lastDm.Pix, d.next.Pix)

	return nil
}

// calculateDiff compares the current and next buffers to find the minimal
// changed region. Returns (minCol, maxCol, minPage, maxPage) or (w, -1, p, -1) if no changes.
func (d *Dev) calculateDiff() (minCol, maxCol, minPage, maxPage int) {
	width := d.rect.Dx()
	pages := d.rect.Dy() / 8

	minPage = pages
	maxPage = -1
	minCol = width
	maxCol = -1

	for p := 0; p < pages; p++ {
		start := p * width
		end := start + width

		if bytes.Equal(d.lastDm.Pix[start:end], d.next.Pix[start:end]) {
			continue
		}
		if p < minPage {
			minPage = p
		}
		if p > maxPage {
			maxPage = p
		}

		// Scan columns within this page for precise boundaries
		for x := 0; x < width; x++ {
			if d.lastDm.Pix[start+x] != d.next.Pix[start+x] {
				if x < minCol {
					minCol = x
				}
				if x > maxCol {
					maxCol = x
				}
			}
		}
	}

	return
}

// extractRegion extracts the page data for a rectangular region.
func (d *Dev) extractRegion(minCol, maxCol, minPage, maxPage int) []byte {
	width := maxCol - minCol + 1
	stride := d.rect.Dx()

	result := make([]byte, 0, width*(maxPage-minPage+1))
	for p := minPage; p <= maxPage; p++ {
		start := p*stride + minCol
		result = append(result, d.next.Pix[start:start+width]...)
	}

	return result
}

// writeFullFrame writes the entire frame buffer to the display.
func (d *Dev) writeFullFrame(pixels []byte) error {
	return d.writeRect(0, 0, d.rect.Dx(), d.rect.Dy()/8, pixels)
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	return d.sendCommands([]byte{0x81, contrast})
}

// Invert inverts the display colors (lit pixels go dark and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	return d.sendCommand(mode)
}

// Halt powers off the display.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommand(0xAE) // Display OFF
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollSpeed defines the interval between horizontal scroll steps.
type ScrollSpeed byte

const (
	// Scroll step intervals (in frames)
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x00
	Speed25Frames  ScrollSpeed = 0x06
	Speed64Frames  ScrollSpeed = 0x01
	Speed128Frames ScrollSpeed = 0x02
	Speed256Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts continuous horizontal scrolling of the pages
// startPage to endPage (inclusive). The controller shifts its RAM on its own;
// call StopScroll before drawing again.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	pages := d.rect.Dy() / 8
	if int(startPage) >= pages || int(endPage) >= pages || endPage < startPage {
		return errors.New("ssd1306: scroll page out of range")
	}

	scrollCmd := byte(0x26) // Left
	if right {
		scrollCmd = 0x27 // Right
	}

	return d.sendCommands([]byte{
		0x2E, // Deactivate any running scroll first
		scrollCmd,
		0x00, // Dummy byte
		startPage,
		byte(speed),
		endPage,
		0x00, 0xFF, // Dummy bytes
		0x2F, // Activate scroll
	})
}

// StopScroll stops scrolling and rewrites the last frame, since the
// controller leaves its RAM shifted.
func (d *Dev) StopScroll() error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	if err := d.sendCommand(0x2E); err != nil {
		return err
	}
	return d.writeFullFrame(d.buffer)
}
