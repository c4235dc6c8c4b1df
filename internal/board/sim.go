package board

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/espwerk/blinkmenu"
)

type simPin struct {
	output  bool
	pull    blinkmenu.Pull
	edge    blinkmenu.Edge
	level   bool
	handler func()
}

// SimGPIO is an in-memory pin bank. Buttons are pressed from code, and output levels are reported through
// OnLevel.
type SimGPIO struct {
	// Bounces is how many extra falling edges every Press produces, like a worn switch contact.
	Bounces int
	// OnLevel, if set, is called after an output pin changes level.
	OnLevel func(pin blinkmenu.Pin, high bool)

	mu   sync.Mutex
	pins map[blinkmenu.Pin]*simPin
}

func NewSimGPIO() *SimGPIO {
	return &SimGPIO{pins: make(map[blinkmenu.Pin]*simPin)}
}

func (g *SimGPIO) ConfigureInput(pin blinkmenu.Pin, pull blinkmenu.Pull, edge blinkmenu.Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.pins[pin]; ok && p.output {
		return errors.Errorf("sim gpio: pin %d already configured as output", pin)
	}
	g.pins[pin] = &simPin{
		pull:  pull,
		edge:  edge,
		level: pull == blinkmenu.PullUp,
	}
	return nil
}

func (g *SimGPIO) ConfigureOutput(pin blinkmenu.Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.pins[pin]; ok && !p.output {
		return errors.Errorf("sim gpio: pin %d already configured as input", pin)
	}
	g.pins[pin] = &simPin{output: true}
	return nil
}

func (g *SimGPIO) SetLevel(pin blinkmenu.Pin, high bool) {
	g.mu.Lock()
	p, ok := g.pins[pin]
	if !ok || !p.output {
		g.mu.Unlock()
		return
	}
	p.level = high
	onLevel := g.OnLevel
	g.mu.Unlock()

	if onLevel != nil {
		onLevel(pin, high)
	}
}

func (g *SimGPIO) RegisterInterrupt(pin blinkmenu.Pin, handler func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pins[pin]
	if !ok || p.output {
		return errors.Errorf("sim gpio: pin %d is not an input", pin)
	}
	if p.edge == blinkmenu.EdgeNone {
		return errors.Errorf("sim gpio: pin %d has no interrupt edge configured", pin)
	}
	p.handler = handler
	return nil
}

// Level returns the current level of pin.
func (g *SimGPIO) Level(pin blinkmenu.Pin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pins[pin]
	if !ok {
		return false, errors.Errorf("sim gpio: pin %d not configured", pin)
	}
	return p.level, nil
}

// Press pulls a pulled-up input low and lets it go again, firing the registered handler for every edge that
// matches its configuration.
func (g *SimGPIO) Press(pin blinkmenu.Pin) error {
	g.mu.Lock()
	p, ok := g.pins[pin]
	if !ok || p.output {
		g.mu.Unlock()
		return errors.Errorf("sim gpio: pin %d is not an input", pin)
	}
	handler, edge := p.handler, p.edge
	g.mu.Unlock()

	fire := func(falling bool) {
		g.mu.Lock()
		p.level = !falling
		g.mu.Unlock()
		if handler == nil {
			return
		}
		if edge == blinkmenu.EdgeBoth || (falling && edge == blinkmenu.EdgeFalling) || (!falling && edge == blinkmenu.EdgeRising) {
			handler()
		}
	}

	for i := 0; i <= g.Bounces; i++ {
		fire(true)
		fire(false)
	}
	return nil
}
