package blinkmenu

import (
	"fmt"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

type fakeDisplay struct {
	mu      sync.Mutex
	w, h    int16
	pix     map[[2]int16]color.RGBA
	flushed int
	err     error
}

func newFakeDisplay(w, h int16) *fakeDisplay {
	return &fakeDisplay{w: w, h: h, pix: make(map[[2]int16]color.RGBA)}
}

func (d *fakeDisplay) Size() (int16, int16) { return d.w, d.h }

func (d *fakeDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pix[[2]int16{x, y}] = c
}

func (d *fakeDisplay) Display() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushed++
	return d.err
}

func (d *fakeDisplay) pixel(x, y int16) color.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pix[[2]int16{x, y}]
}

func (d *fakeDisplay) litPixels() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.pix {
		if c.R != 0 || c.G != 0 || c.B != 0 {
			n++
		}
	}
	return n
}

func (d *fakeDisplay) flushes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushed
}

type inputConfig struct {
	pull Pull
	edge Edge
}

type fakeGPIO struct {
	mu        sync.Mutex
	inputs    map[Pin]inputConfig
	outputs   map[Pin]bool
	handlers  map[Pin]func()
	levels    []bool
	failInput Pin
	failOut   bool
	failIRQ   bool
}

var errFakeGPIO = errors.New("fake gpio failure")

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		inputs:   make(map[Pin]inputConfig),
		outputs:  make(map[Pin]bool),
		handlers: make(map[Pin]func()),
	}
}

func (g *fakeGPIO) ConfigureInput(pin Pin, pull Pull, edge Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failInput != 0 && pin == g.failInput {
		return errFakeGPIO
	}
	g.inputs[pin] = inputConfig{pull: pull, edge: edge}
	return nil
}

func (g *fakeGPIO) ConfigureOutput(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failOut {
		return errFakeGPIO
	}
	g.outputs[pin] = false
	return nil
}

func (g *fakeGPIO) SetLevel(pin Pin, high bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputs[pin] = high
	g.levels = append(g.levels, high)
}

func (g *fakeGPIO) RegisterInterrupt(pin Pin, handler func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failIRQ {
		return errFakeGPIO
	}
	g.handlers[pin] = handler
	return nil
}

// fire runs the interrupt handler for pin the way the hardware would.
func (g *fakeGPIO) fire(pin Pin) {
	g.mu.Lock()
	h := g.handlers[pin]
	g.mu.Unlock()
	if h != nil {
		h()
	}
}

func (g *fakeGPIO) level(pin Pin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outputs[pin]
}

func (g *fakeGPIO) levelChanges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.levels)
}

type fakeClock struct {
	now atomic.Uint32
}

func (c *fakeClock) Ticks() Ticks { return Ticks(c.now.Load()) }

func (c *fakeClock) advance(d Ticks) { c.now.Add(uint32(d)) }

type menuSnapshot struct {
	selected int
	status   string
}

type fakePresenter struct {
	mu    sync.Mutex
	calls []menuSnapshot
	ch    chan menuSnapshot
	err   error
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{ch: make(chan menuSnapshot, 32)}
}

func (p *fakePresenter) Present(m *Menu) error {
	s := menuSnapshot{selected: m.Selected(), status: m.Status}
	p.mu.Lock()
	p.calls = append(p.calls, s)
	err := p.err
	p.mu.Unlock()
	select {
	case p.ch <- s:
	default:
	}
	return err
}

func (p *fakePresenter) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *fakeLogger) Debug(msg string) { l.add(msg) }

func (l *fakeLogger) Debugf(format string, v ...any) { l.add(fmt.Sprintf(format, v...)) }

func (l *fakeLogger) Info(msg string) { l.add(msg) }

func (l *fakeLogger) Infof(format string, v ...any) { l.add(fmt.Sprintf(format, v...)) }

func (l *fakeLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}
