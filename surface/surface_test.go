package surface

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/flavioheleno/oledmenu/image1bit"
	"periph.io/x/conn/v3/display"
)

// recorder is a display.Drawer keeping the last frame it was handed.
type recorder struct {
	rect   image.Rectangle
	draws  int
	last   *image1bit.VerticalLSB
	halted bool
}

func (r *recorder) String() string          { return "recorder" }
func (r *recorder) Halt() error             { r.halted = true; return nil }
func (r *recorder) ColorModel() color.Model { return image1bit.BitModel }
func (r *recorder) Bounds() image.Rectangle { return r.rect }

func (r *recorder) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	r.draws++
	r.last = src.(*image1bit.VerticalLSB).Clone()
	return nil
}

func TestInitSizesToDevice(t *testing.T) {
	dev := &recorder{rect: image.Rect(0, 0, 128, 32)}
	fb := New(dev)

	if err := fb.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := fb.Bounds(); got != dev.rect {
		t.Errorf("Bounds() = %v, want %v", got, dev.rect)
	}
	if dev.draws != 1 {
		t.Errorf("Init presented %d frames, want 1", dev.draws)
	}
}

func TestInitFailures(t *testing.T) {
	tests := []struct {
		name string
		fb   *Framebuffer
	}{
		{"nil device", New(nil)},
		{"opener error", Open(func() (display.Drawer, error) { return nil, errors.New("ssd1306: no ack") })},
		{"empty bounds", New(&recorder{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fb.Init(); err == nil {
				t.Error("Init() should fail")
			}
			if err := tt.fb.Flush(); !errors.Is(err, ErrNotOpen) {
				t.Errorf("Flush() error = %v, want ErrNotOpen", err)
			}
		})
	}
}

func TestDrawBeforeInit(t *testing.T) {
	fb := New(&recorder{rect: image.Rect(0, 0, 8, 8)})
	src := image1bit.NewVerticalLSB(image.Rect(0, 0, 2, 2))

	if err := fb.DrawBitmap(0, 0, src, image1bit.On, image1bit.Off); !errors.Is(err, ErrNotOpen) {
		t.Errorf("DrawBitmap() error = %v, want ErrNotOpen", err)
	}
	// No panic expected
	fb.FillRect(image.Rect(0, 0, 2, 2), image1bit.On)
	fb.DrawRect(image.Rect(0, 0, 2, 2), image1bit.On)
	fb.Clear()
	if fb.Image() != nil {
		t.Error("Image() should be nil before Init")
	}
}

func TestDrawBitmapAndFlush(t *testing.T) {
	dev := &recorder{rect: image.Rect(0, 0, 16, 16)}
	fb := New(dev)
	if err := fb.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	src := image1bit.NewVerticalLSB(image.Rect(0, 0, 4, 4))
	src.SetBit(0, 0, image1bit.On)
	if err := fb.DrawBitmap(8, 8, src, image1bit.On, image1bit.Off); err != nil {
		t.Fatalf("DrawBitmap() error = %v", err)
	}
	fb.DrawRect(image.Rect(0, 0, 4, 4), image1bit.On)
	fb.FillRect(image.Rect(12, 0, 14, 2), image1bit.On)

	if err := fb.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if dev.draws != 2 {
		t.Errorf("draws = %d, want 2", dev.draws)
	}

	tests := []struct {
		x, y int
		want image1bit.Bit
	}{
		{8, 8, image1bit.On},
		{9, 8, image1bit.Off},
		{0, 0, image1bit.On},
		{3, 3, image1bit.On},
		{1, 1, image1bit.Off},
		{13, 1, image1bit.On},
	}
	for _, tt := range tests {
		if got := dev.last.BitAt(tt.x, tt.y); got != tt.want {
			t.Errorf("presented pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	fb.Clear()
	if err := fb.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if dev.last.BitAt(8, 8) {
		t.Error("Clear did not blank the frame")
	}
}

func TestString(t *testing.T) {
	fb := New(&recorder{rect: image.Rect(0, 0, 8, 8)})
	if got := fb.String(); got != "surface.Framebuffer{closed}" {
		t.Errorf("String() = %q before Init", got)
	}
	if err := fb.Init(); err != nil {
		t.Fatal(err)
	}
	if got := fb.String(); got != "surface.Framebuffer{recorder}" {
		t.Errorf("String() = %q after Init", got)
	}
}
