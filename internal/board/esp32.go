//go:build tinygo

package board

import (
	"image/color"
	"machine"

	"github.com/pkg/errors"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1331"

	"github.com/espwerk/blinkmenu"
)

// SSD1331 wiring on machine.SPI2.
const (
	spiCS  = machine.Pin(5)
	spiRES = machine.Pin(17)
	spiDC  = machine.Pin(16)
)

var blackPixel = color.RGBA{A: 0xFF}

// MachineGPIO drives the chip's own pins.
type MachineGPIO struct {
	edges map[blinkmenu.Pin]machine.PinChange
}

func NewMachineGPIO() *MachineGPIO {
	return &MachineGPIO{edges: make(map[blinkmenu.Pin]machine.PinChange)}
}

func (g *MachineGPIO) ConfigureInput(pin blinkmenu.Pin, pull blinkmenu.Pull, edge blinkmenu.Edge) error {
	var mode machine.PinMode
	switch pull {
	case blinkmenu.PullNone:
		mode = machine.PinInput
	case blinkmenu.PullUp:
		mode = machine.PinInputPullup
	case blinkmenu.PullDown:
		mode = machine.PinInputPulldown
	default:
		return errors.Errorf("pin %d: invalid pull %s", pin, pull)
	}

	switch edge {
	case blinkmenu.EdgeNone:
		delete(g.edges, pin)
	case blinkmenu.EdgeFalling:
		g.edges[pin] = machine.PinFalling
	case blinkmenu.EdgeRising:
		g.edges[pin] = machine.PinRising
	case blinkmenu.EdgeBoth:
		g.edges[pin] = machine.PinToggle
	default:
		return errors.Errorf("pin %d: invalid edge %s", pin, edge)
	}

	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (g *MachineGPIO) ConfigureOutput(pin blinkmenu.Pin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (g *MachineGPIO) SetLevel(pin blinkmenu.Pin, high bool) {
	machine.Pin(pin).Set(high)
}

func (g *MachineGPIO) RegisterInterrupt(pin blinkmenu.Pin, handler func()) error {
	change, ok := g.edges[pin]
	if !ok {
		return errors.Errorf("pin %d has no interrupt edge configured", pin)
	}
	err := machine.Pin(pin).SetInterrupt(change, func(machine.Pin) { handler() })
	return errors.Wrapf(err, "set interrupt on pin %d", pin)
}

// NewDisplay configures the SPI bus and the 96x64 SSD1331 OLED.
func NewDisplay() (drivers.Displayer, error) {
	err := machine.SPI2.Configure(machine.SPIConfig{
		Frequency: 8 * machine.MHz,
		SCK:       machine.Pin(18),
		SDO:       machine.Pin(23),
	})
	if err != nil {
		return nil, errors.Wrap(err, "configure spi")
	}

	dev := ssd1331.New(machine.SPI2, spiRES, spiDC, spiCS)
	dev.Configure(ssd1331.Config{})
	dev.FillScreen(blackPixel)
	return &dev, nil
}
