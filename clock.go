package oledmenu

import "time"

// Clock reports monotonic milliseconds since an arbitrary start.
// Only differences between readings are used, so wrap-around is harmless.
type Clock interface {
	Millis() uint32
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() uint32

func (f ClockFunc) Millis() uint32 { return f() }

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock backed by the process monotonic clock.
func NewSystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

// motion turns elapsed milliseconds into whole pixels at a given speed.
// The sub-pixel remainder is carried to the next step, so the distance
// covered does not depend on how often Tick is called.
type motion struct {
	lastMs uint32
	carry  uint32 // px·ms/s not yet converted to a pixel, below 1000
}

func (m *motion) restart(now uint32) {
	m.lastMs = now
	m.carry = 0
}

// advance returns the whole pixels covered at speed px/s since the last call.
func (m *motion) advance(now, speed uint32) int {
	total := uint64(m.carry) + uint64(speed)*uint64(now-m.lastMs)
	m.lastMs = now
	m.carry = uint32(total % 1000)
	return int(total / 1000)
}
