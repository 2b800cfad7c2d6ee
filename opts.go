package oledmenu

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// MarqueeMode selects which rows scroll horizontally when their text overflows.
type MarqueeMode uint8

const (
	// MarqueeSelectedOnly scrolls only the selected row.
	MarqueeSelectedOnly MarqueeMode = iota
	// MarqueeAllOverflow scrolls every visible row that overflows.
	MarqueeAllOverflow
)

func (m MarqueeMode) String() string {
	switch m {
	case MarqueeSelectedOnly:
		return "selected-only"
	case MarqueeAllOverflow:
		return "all-overflow"
	}
	return fmt.Sprintf("MarqueeMode(%d)", uint8(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MarqueeMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "selected-only", "selected":
		*m = MarqueeSelectedOnly
	case "all-overflow", "all":
		*m = MarqueeAllOverflow
	default:
		return fmt.Errorf("oledmenu: unknown marquee mode %q", b)
	}
	return nil
}

// TransitionType is the animation played when navigation crosses a page.
type TransitionType uint8

const (
	TransitionNone TransitionType = iota
	TransitionSlide
	TransitionFade
)

func (t TransitionType) String() string {
	switch t {
	case TransitionNone:
		return "none"
	case TransitionSlide:
		return "slide"
	case TransitionFade:
		return "fade"
	}
	return fmt.Sprintf("TransitionType(%d)", uint8(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TransitionType) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "none", "":
		*t = TransitionNone
	case "slide":
		*t = TransitionSlide
	case "fade":
		*t = TransitionFade
	default:
		return fmt.Errorf("oledmenu: unknown transition %q", b)
	}
	return nil
}

// Alignment positions the title and subtitle lines.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("Alignment(%d)", uint8(a))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "left", "":
		*a = AlignLeft
	case "center", "centre":
		*a = AlignCenter
	case "right":
		*a = AlignRight
	default:
		return fmt.Errorf("oledmenu: unknown alignment %q", b)
	}
	return nil
}

// MarqueeOpts configures the per-row horizontal marquee.
type MarqueeOpts struct {
	Enabled             bool        `toml:"enabled"`
	Mode                MarqueeMode `toml:"mode"`
	Speed               uint32      `toml:"speed"`                  // px/s
	EdgePauseMs         uint32      `toml:"edge_pause_ms"`          // pause at either end
	SelectedEdgePauseMs uint32      `toml:"selected_edge_pause_ms"` // pause for the selected row
	ResetOnIntraPageNav bool        `toml:"reset_on_intra_page_nav"`
}

// ScrollOpts configures the vertical smooth scroll between rows.
type ScrollOpts struct {
	Enabled bool   `toml:"enabled"`
	Speed   uint32 `toml:"speed"` // px/s
}

// TransitionOpts configures the page transition.
type TransitionOpts struct {
	Type       TransitionType `toml:"type"`
	DurationMs uint32         `toml:"duration_ms"`
}

// Opts is the configuration for a Menu.
type Opts struct {
	// Display geometry in pixels
	Width     int  `toml:"width"`  // default: 128
	Height    int  `toml:"height"` // default: 64
	StatusBar bool `toml:"status_bar"`

	// InvertColors swaps foreground and background when blitting.
	InvertColors bool `toml:"invert_colors"`

	// Layout
	Columns        int  `toml:"columns"`          // 1 or 2
	Rows           int  `toml:"rows"`             // rows per page
	CharsPerColumn int  `toml:"chars_per_column"` // clip width
	CharWidth      int  `toml:"char_width"`       // px per character cell
	Wrap           bool `toml:"wrap"`
	InvertSelected bool `toml:"invert_selected"`

	Marquee      MarqueeOpts    `toml:"marquee"`
	SmoothScroll ScrollOpts     `toml:"smooth_scroll"`
	Transition   TransitionOpts `toml:"transition"`

	// Collaborators; nil selects the defaults.
	Clock  Clock        `toml:"-"`
	Font   Font         `toml:"-"`
	Logger *slog.Logger `toml:"-"`
}

// DefaultOpts returns the configuration used when New is given nil opts.
func DefaultOpts() *Opts {
	return &Opts{
		Width:          128,
		Height:         64,
		Columns:        1,
		Rows:           6,
		CharsPerColumn: 16,
		CharWidth:      6,
		Marquee: MarqueeOpts{
			Enabled:             true,
			Mode:                MarqueeSelectedOnly,
			Speed:               30,
			EdgePauseMs:         600,
			SelectedEdgePauseMs: 900,
		},
		SmoothScroll: ScrollOpts{
			Enabled: true,
			Speed:   120,
		},
		Transition: TransitionOpts{
			Type:       TransitionSlide,
			DurationMs: 300,
		},
	}
}

// LoadOpts reads a TOML configuration file on top of DefaultOpts.
func LoadOpts(path string) (*Opts, error) {
	o := DefaultOpts()
	md, err := toml.DecodeFile(path, o)
	if err != nil {
		return nil, fmt.Errorf("oledmenu: %w", err)
	}
	return o, checkUndecoded(md)
}

// DecodeOpts reads a TOML configuration on top of DefaultOpts.
func DecodeOpts(r io.Reader) (*Opts, error) {
	o := DefaultOpts()
	md, err := toml.NewDecoder(r).Decode(o)
	if err != nil {
		return nil, fmt.Errorf("oledmenu: %w", err)
	}
	return o, checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return fmt.Errorf("oledmenu: unknown configuration keys: %s", strings.Join(names, ", "))
}

// normalize clamps every field into its valid range.
func (o *Opts) normalize() {
	if o.Width <= 0 {
		o.Width = 128
	}
	if o.Height < titleHeight+RowHeight {
		o.Height = 64
	}
	if o.Columns != 2 {
		o.Columns = 1
	}
	if o.Rows <= 0 {
		o.Rows = 1
	}
	if o.CharsPerColumn <= 0 {
		o.CharsPerColumn = 1
	}
	if o.CharWidth <= 0 {
		o.CharWidth = 6
	}
	o.Marquee.Speed = atLeastOne(o.Marquee.Speed)
	o.SmoothScroll.Speed = atLeastOne(o.SmoothScroll.Speed)
	o.Transition.DurationMs = atLeastOne(o.Transition.DurationMs)
	if o.Transition.Type > TransitionFade {
		o.Transition.Type = TransitionNone
	}
	if o.Marquee.Mode > MarqueeAllOverflow {
		o.Marquee.Mode = MarqueeSelectedOnly
	}
}

func atLeastOne(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}
