//go:build !tinygo

// blinkmenu-sim runs the menu firmware on a workstation. The OLED is drawn in the terminal, arrow keys and Enter
// are the three buttons, and the LED is shown under the display.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	app := newApp(runSim)
	err := app.Run(os.Args)
	if err != nil {
		log.WithError(err).Error("blinkmenu-sim failed")
		os.Exit(1)
	}
}

func newApp(action func(*cli.Context) error) *cli.App {
	app := cli.NewApp()
	app.Name = "blinkmenu-sim"
	app.Usage = "run the blinkmenu firmware in a terminal"
	app.Description = "Up/Down or k/j move, Enter or space selects, q or Esc quits."
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "TOML file overriding the default board config",
		},
		cli.IntFlag{
			Name:  "bounce",
			Usage: "debounce window in milliseconds",
		},
		cli.IntFlag{
			Name:  "queue",
			Usage: "event queue capacity",
		},
		cli.IntFlag{
			Name:  "bounces",
			Usage: "extra falling edges every simulated press produces",
			Value: 2,
		},
		cli.BoolFlag{
			Name:  "flip",
			Usage: "rotate the display by 180 degrees",
		},
		cli.StringFlag{
			Name:  "gpio",
			Usage: "button source: sim (keyboard) or rpi (Raspberry Pi header)",
			Value: "sim",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "panic, fatal, error, warn, info, debug or trace",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "where to write logs; the terminal is taken by the display",
			Value: "blinkmenu-sim.log",
		},
	}
	app.Action = action
	return app
}
