//go:build !tinygo

package board

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/espwerk/blinkmenu"
)

// DefaultPollInterval is how often RpiGPIO checks the edge detect registers.
const DefaultPollInterval = time.Millisecond

// RpiGPIO drives the Raspberry Pi header through /dev/gpiomem. The kernel gives userspace no interrupt line for
// these registers, so edges are latched by the hardware edge detector and collected by a polling goroutine.
type RpiGPIO struct {
	PollInterval time.Duration

	mu       sync.Mutex
	handlers map[blinkmenu.Pin]func()
	open     bool
	stop     chan struct{}
	done     chan struct{}
}

func NewRpiGPIO() *RpiGPIO {
	return &RpiGPIO{
		PollInterval: DefaultPollInterval,
		handlers:     make(map[blinkmenu.Pin]func()),
	}
}

// Open maps the GPIO registers and starts edge polling.
func (g *RpiGPIO) Open() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		return nil
	}
	err := rpio.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open rpi gpio")
	}
	g.open = true
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	go g.poll(g.stop, g.done)
	return nil
}

func (g *RpiGPIO) Close() error {
	g.mu.Lock()
	if !g.open {
		g.mu.Unlock()
		return nil
	}
	g.open = false
	close(g.stop)
	done := g.done
	g.mu.Unlock()
	<-done

	g.mu.Lock()
	for pin := range g.handlers {
		rpio.Pin(pin).Detect(rpio.NoEdge)
	}
	g.mu.Unlock()
	return rpio.Close()
}

func (g *RpiGPIO) ConfigureInput(pin blinkmenu.Pin, pull blinkmenu.Pull, edge blinkmenu.Edge) error {
	if !g.isOpen() {
		return errors.Errorf("pin %d: gpio not open", pin)
	}
	var p rpio.Pull
	switch pull {
	case blinkmenu.PullNone:
		p = rpio.PullOff
	case blinkmenu.PullUp:
		p = rpio.PullUp
	case blinkmenu.PullDown:
		p = rpio.PullDown
	default:
		return errors.Errorf("pin %d: invalid pull %s", pin, pull)
	}
	var e rpio.Edge
	switch edge {
	case blinkmenu.EdgeNone:
		e = rpio.NoEdge
	case blinkmenu.EdgeFalling:
		e = rpio.FallEdge
	case blinkmenu.EdgeRising:
		e = rpio.RiseEdge
	case blinkmenu.EdgeBoth:
		e = rpio.AnyEdge
	default:
		return errors.Errorf("pin %d: invalid edge %s", pin, edge)
	}

	rp := rpio.Pin(pin)
	rp.Input()
	rp.Pull(p)
	rp.Detect(e)
	return nil
}

func (g *RpiGPIO) ConfigureOutput(pin blinkmenu.Pin) error {
	if !g.isOpen() {
		return errors.Errorf("pin %d: gpio not open", pin)
	}
	rpio.Pin(pin).Output()
	return nil
}

func (g *RpiGPIO) SetLevel(pin blinkmenu.Pin, high bool) {
	if high {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
}

func (g *RpiGPIO) RegisterInterrupt(pin blinkmenu.Pin, handler func()) error {
	if handler == nil {
		return errors.Errorf("pin %d: nil handler", pin)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[pin] = handler
	return nil
}

func (g *RpiGPIO) isOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

func (g *RpiGPIO) poll(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(g.PollInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}

		g.mu.Lock()
		for pin, handler := range g.handlers {
			// reading the detect bit also clears it
			if rpio.Pin(pin).EdgeDetected() {
				handler()
			}
		}
		g.mu.Unlock()
	}
}
