// Package termdisplay shows a small pixel display in a terminal and turns key presses into button presses.
// Two pixel rows share one cell through the upper half block character.
package termdisplay

import (
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/espwerk/blinkmenu"
)

const (
	upperHalf = '▀'
	ledOn     = '●'
	ledOff    = '○'
)

var frameStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)

// Display is a drivers.Displayer drawn into a tcell screen, framed, with an LED indicator underneath.
type Display struct {
	screen tcell.Screen

	mu   sync.Mutex
	w, h int16
	pix  []color.RGBA
	led  bool
}

func New(screen tcell.Screen, w, h int16) *Display {
	return &Display{
		screen: screen,
		w:      w,
		h:      h,
		pix:    make([]color.RGBA, int(w)*int(h)),
	}
}

func (d *Display) Size() (x, y int16) {
	return d.w, d.h
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	d.mu.Lock()
	d.pix[int(y)*int(d.w)+int(x)] = c
	d.mu.Unlock()
}

// Pixel returns the colour last set at x, y.
func (d *Display) Pixel(x, y int16) color.RGBA {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return color.RGBA{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pix[int(y)*int(d.w)+int(x)]
}

func (d *Display) Display() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draw()
	d.screen.Show()
	return nil
}

// SetLED updates the LED indicator.
func (d *Display) SetLED(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.led = on
	d.drawLED()
	d.screen.Show()
}

// LED reports the indicator state.
func (d *Display) LED() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.led
}

// Rows is how many terminal rows the display occupies, frame and LED line included.
func (d *Display) Rows() int {
	return (int(d.h)+1)/2 + 3
}

func (d *Display) draw() {
	cols, rows := int(d.w), (int(d.h)+1)/2

	d.screen.SetContent(0, 0, tcell.RuneULCorner, nil, frameStyle)
	d.screen.SetContent(cols+1, 0, tcell.RuneURCorner, nil, frameStyle)
	d.screen.SetContent(0, rows+1, tcell.RuneLLCorner, nil, frameStyle)
	d.screen.SetContent(cols+1, rows+1, tcell.RuneLRCorner, nil, frameStyle)
	for x := 1; x <= cols; x++ {
		d.screen.SetContent(x, 0, tcell.RuneHLine, nil, frameStyle)
		d.screen.SetContent(x, rows+1, tcell.RuneHLine, nil, frameStyle)
	}
	for y := 1; y <= rows; y++ {
		d.screen.SetContent(0, y, tcell.RuneVLine, nil, frameStyle)
		d.screen.SetContent(cols+1, y, tcell.RuneVLine, nil, frameStyle)
	}

	for row := 0; row < rows; row++ {
		for x := 0; x < cols; x++ {
			top := d.pix[2*row*cols+x]
			bottom := color.RGBA{}
			if 2*row+1 < int(d.h) {
				bottom = d.pix[(2*row+1)*cols+x]
			}
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			d.screen.SetContent(x+1, row+1, upperHalf, nil, style)
		}
	}
	d.drawLED()
}

func (d *Display) drawLED() {
	y := (int(d.h)+1)/2 + 2
	r, style := ledOff, frameStyle
	if d.led {
		r, style = ledOn, tcell.StyleDefault.Foreground(tcell.ColorOrange).Background(tcell.ColorBlack)
	}
	d.screen.SetContent(1, y, r, nil, style)
	for i, c := range " LED" {
		d.screen.SetContent(2+i, y, c, nil, frameStyle)
	}
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// KeyButton maps arrow keys, Enter and the vi-style letters to buttons.
func KeyButton(ev *tcell.EventKey) (blinkmenu.ButtonID, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return blinkmenu.ButtonUp, true
	case tcell.KeyDown:
		return blinkmenu.ButtonDown, true
	case tcell.KeyEnter:
		return blinkmenu.ButtonSelect, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'w':
			return blinkmenu.ButtonUp, true
		case 'j', 's':
			return blinkmenu.ButtonDown, true
		case ' ':
			return blinkmenu.ButtonSelect, true
		}
	}
	return 0, false
}

// IsQuit reports whether ev asks the simulator to exit.
func IsQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// PollKeys reads terminal events until a quit key, calling press for every button key. Resizes redraw the
// display.
func (d *Display) PollKeys(press func(blinkmenu.ButtonID)) {
	for {
		ev := d.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// screen finalized
			return
		case *tcell.EventResize:
			_ = d.Display()
			d.screen.Sync()
		case *tcell.EventKey:
			if IsQuit(ev) {
				return
			}
			if id, ok := KeyButton(ev); ok {
				press(id)
			}
		}
	}
}
