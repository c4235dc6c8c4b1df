//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/espwerk/blinkmenu"
	"github.com/espwerk/blinkmenu/internal/board"
)

var ledPin = machine.Pin(blinkmenu.DefaultConfig().LED)

func main() {
	blink()
	cfg := blinkmenu.DefaultConfig()

	disp, err := board.NewDisplay()
	if err != nil {
		earlyPanic(err)
	}
	blink()

	app, err := blinkmenu.New(cfg, board.NewMachineGPIO(), disp, blinkmenu.NewMonotonicClock())
	if err != nil {
		earlyPanic(err)
	}
	err = app.Init()
	if err != nil {
		earlyPanic(err)
	}

	app.Run()
}

func blink() {
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	ledPin.High()
	time.Sleep(100 * time.Millisecond)
	ledPin.Low()
	time.Sleep(100 * time.Millisecond)
}

func earlyPanic(err error) {
	for {
		println(err.Error())
		blink()
	}
}
