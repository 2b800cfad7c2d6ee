// Package oledmenu draws an animated, paginated item menu on a small
// monochrome OLED display.
//
// The screen is split into three regions:
//
//	y 0..15    title and subtitle, one 8 px text line each
//	y 16..     items, Rows per page, in one or two columns
//	y H-8..H   optional status bar
//
// Each region is rendered into its own 1-bit canvas and only blitted onto the
// display surface when it is dirty. The surface is flushed once per Refresh.
//
// # Animations
//
// Three animations are driven by Tick, from the elapsed milliseconds of a
// Clock:
//
// - Marquee: an item wider than its column scrolls left, pauses, scrolls back
// and pauses again, for as long as it overflows. Only the selected item
// scrolls unless MarqueeAllOverflow is set.
//
// - Smooth scroll: moving to another row of the same page slides the rows
// 8 px under the selection highlight before the selection is committed.
//
// - Page transition: moving to another page either slides the old page out
// while the new one slides in, or dithers between both over time (fade).
//
// A page transition takes precedence over smooth scrolling. Navigation input
// is ignored while either is in flight.
//
// # Basic Usage
//
//	bus, _ := i2creg.Open("")
//	fb := surface.Open(func() (display.Drawer, error) {
//		return ssd1306.NewI2C(bus, ssd1306.DefaultAddr, &ssd1306.Opts{W: 128, H: 64})
//	})
//
//	m := oledmenu.New(fb, oledmenu.DefaultOpts())
//	if err := m.Init(); err != nil {
//		log.Fatal(err)
//	}
//	m.SetTitle("Settings", oledmenu.AlignCenter)
//	m.SetItems([]string{"Network", "Display", "A rather long item name", "About"})
//
//	for {
//		// poll buttons: m.Next(), m.Previous()
//		m.Tick()
//		m.Refresh()
//		time.Sleep(10 * time.Millisecond)
//	}
//
// # Configuration
//
// Opts can be decoded from TOML with LoadOpts or DecodeOpts:
//
//	columns = 2
//	rows = 4
//	chars_per_column = 10
//	wrap = true
//
//	[marquee]
//	mode = "all-overflow"
//	speed = 40
//
//	[transition]
//	type = "fade"
//	duration_ms = 250
//
// # Errors
//
// A failing Init is latched: the Menu never draws again and Err returns a
// *DisplayError. Out of range selections and navigation on an empty list are
// silently ignored.
package oledmenu
