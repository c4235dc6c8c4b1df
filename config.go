package blinkmenu

import (
	"time"

	"github.com/pkg/errors"
)

// Config holds the wiring and timing of the board. The firmware uses DefaultConfig as-is; the host simulator may
// overlay a TOML file.
type Config struct {
	ButtonUp     Pin `toml:"button_up"`
	ButtonDown   Pin `toml:"button_down"`
	ButtonSelect Pin `toml:"button_select"`
	LED          Pin `toml:"led"`

	// BounceMs is the debounce window in milliseconds.
	BounceMs      uint32        `toml:"bounce_ms"`
	QueueCapacity int           `toml:"queue_capacity"`
	BlinkPeriod   time.Duration `toml:"blink_period"`
	IdlePeriod    time.Duration `toml:"idle_period"`

	MenuTitle   string `toml:"menu_title"`
	Banner      string `toml:"banner"`
	Splash      string `toml:"splash"`
	FlipDisplay bool   `toml:"flip_display"`
	Verbose     bool   `toml:"verbose"`
}

// DefaultConfig is the ESP32 devkit wiring: buttons on GPIO26/27/25 to ground, LED on GPIO2.
func DefaultConfig() Config {
	return Config{
		ButtonUp:      26,
		ButtonDown:    27,
		ButtonSelect:  25,
		LED:           2,
		BounceMs:      uint32(BounceWindow.Duration() / time.Millisecond),
		QueueCapacity: DefaultQueueCapacity,
		BlinkPeriod:   time.Second,
		IdlePeriod:    time.Second,
		MenuTitle:     "MENU",
		Banner:        "Running!",
		Splash:        "splash",
	}
}

// ButtonPin returns the line wired to id.
func (c Config) ButtonPin(id ButtonID) Pin {
	switch id {
	case ButtonUp:
		return c.ButtonUp
	case ButtonDown:
		return c.ButtonDown
	default:
		return c.ButtonSelect
	}
}

// BounceWindow returns the debounce window in ticks.
func (c Config) BounceWindow() Ticks {
	return TicksOf(time.Duration(c.BounceMs) * time.Millisecond)
}

func (c Config) Validate() error {
	pins := map[Pin]string{}
	for _, p := range []struct {
		name string
		pin  Pin
	}{
		{"button_up", c.ButtonUp},
		{"button_down", c.ButtonDown},
		{"button_select", c.ButtonSelect},
		{"led", c.LED},
	} {
		if other, dup := pins[p.pin]; dup {
			return errors.Wrapf(ErrInvalidConfig, "%s and %s share pin %d", other, p.name, p.pin)
		}
		pins[p.pin] = p.name
	}
	if c.QueueCapacity < 1 {
		return errors.Wrapf(ErrInvalidConfig, "queue capacity %d", c.QueueCapacity)
	}
	if c.BlinkPeriod <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "blink period %s", c.BlinkPeriod)
	}
	if c.IdlePeriod <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "idle period %s", c.IdlePeriod)
	}
	return nil
}
