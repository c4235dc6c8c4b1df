package blinkmenu

import (
	"time"
)

// TickDuration is the length of one scheduler tick.
const TickDuration = time.Millisecond

// Ticks is a monotonic tick count. It wraps around after about 49 days; compare with Since, never with <.
type Ticks uint32

// Since returns how many ticks have passed from t to now, and false if now is before t.
func (t Ticks) Since(now Ticks) (Ticks, bool) {
	d := now - t
	if int32(d) < 0 {
		return 0, false
	}
	return d, true
}

// Duration converts a tick count to wall time.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * TickDuration
}

// TicksOf converts a wall time duration to ticks, rounding down.
func TicksOf(d time.Duration) Ticks {
	return Ticks(d / TickDuration)
}

// Clock supplies the current tick count. It must be safe to call from interrupt context.
type Clock interface {
	Ticks() Ticks
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock counting ticks from now.
func NewMonotonicClock() Clock {
	return monotonicClock{start: time.Now()}
}

func (c monotonicClock) Ticks() Ticks {
	return TicksOf(time.Since(c.start))
}

// ButtonID identifies one of the three menu buttons.
type ButtonID uint8

const (
	ButtonUp ButtonID = iota
	ButtonDown
	ButtonSelect

	buttonCount
)

// Valid reports whether b names a real button.
func (b ButtonID) Valid() bool {
	return b < buttonCount
}

func (b ButtonID) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonSelect:
		return "select"
	default:
		return "INVALID"
	}
}

// Buttons lists every button in pin setup order.
var Buttons = [buttonCount]ButtonID{ButtonUp, ButtonDown, ButtonSelect}

// Action is what a menu item does when selected.
type Action uint8

const (
	ActionConnect Action = iota
	ActionDisconnect
)

func (a Action) String() string {
	switch a {
	case ActionConnect:
		return "Connect"
	case ActionDisconnect:
		return "Disconnect"
	default:
		return "INVALID"
	}
}

// Pin is a GPIO line number as the board numbers it.
type Pin uint8

// Pull selects the pull resistor of an input line.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullNone:
		return "none"
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "INVALID"
	}
}

// Edge selects which transitions of an input line raise an interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeFalling
	EdgeRising
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeFalling:
		return "falling"
	case EdgeRising:
		return "rising"
	case EdgeBoth:
		return "both"
	default:
		return "INVALID"
	}
}

// GPIO is the hardware abstraction the app drives. Implementations live in internal/board.
type GPIO interface {
	// ConfigureInput sets pin up as an input with the given pull resistor and interrupt edge.
	ConfigureInput(pin Pin, pull Pull, edge Edge) error
	ConfigureOutput(pin Pin) error
	SetLevel(pin Pin, high bool)
	// RegisterInterrupt installs handler for the edge configured on pin. The handler runs in interrupt context
	// and must not block.
	RegisterInterrupt(pin Pin, handler func()) error
}

// Blinker is satisfied by machine.Pin.
type Blinker interface {
	Low()
	High()
}

type gpioBlinker struct {
	gpio GPIO
	pin  Pin
}

func (b gpioBlinker) High() { b.gpio.SetLevel(b.pin, true) }

func (b gpioBlinker) Low() { b.gpio.SetLevel(b.pin, false) }
