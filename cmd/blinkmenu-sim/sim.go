//go:build !tinygo

package main

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/espwerk/blinkmenu"
	"github.com/espwerk/blinkmenu/internal/board"
	"github.com/espwerk/blinkmenu/internal/termdisplay"
)

const (
	displayWidth  = 96
	displayHeight = 64
)

// loadConfig layers the TOML file and then the flags over the board defaults.
func loadConfig(c *cli.Context) (blinkmenu.Config, error) {
	cfg := blinkmenu.DefaultConfig()
	if path := c.String("config"); path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
	}
	if c.IsSet("bounce") {
		if c.Int("bounce") < 0 {
			return cfg, errors.Wrap(blinkmenu.ErrInvalidConfig, "negative bounce window")
		}
		cfg.BounceMs = uint32(c.Int("bounce"))
	}
	if c.IsSet("queue") {
		cfg.QueueCapacity = c.Int("queue")
	}
	if c.Bool("flip") {
		cfg.FlipDisplay = true
	}
	return cfg, cfg.Validate()
}

func newLogger(c *cli.Context) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "log level")
	}
	f, err := os.OpenFile(c.String("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	l := log.New()
	l.SetOutput(f)
	l.SetLevel(level)
	return l, func() { _ = f.Close() }, nil
}

// ledGPIO mirrors the LED pin onto the terminal display.
type ledGPIO struct {
	blinkmenu.GPIO
	led  blinkmenu.Pin
	disp *termdisplay.Display
}

func (g ledGPIO) SetLevel(pin blinkmenu.Pin, high bool) {
	g.GPIO.SetLevel(pin, high)
	if pin == g.led {
		g.disp.SetLED(high)
	}
}

func runSim(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(c)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to initialize terminal")
	}
	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize terminal")
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	disp := termdisplay.New(screen, displayWidth, displayHeight)

	var gpio blinkmenu.GPIO
	var app *blinkmenu.App
	var press func(blinkmenu.ButtonID)
	switch c.String("gpio") {
	case "sim":
		sg := board.NewSimGPIO()
		sg.Bounces = c.Int("bounces")
		gpio = sg
		press = func(id blinkmenu.ButtonID) {
			if err := sg.Press(cfg.ButtonPin(id)); err != nil {
				logger.WithError(err).Warn("press")
			}
		}
	case "rpi":
		rg := board.NewRpiGPIO()
		if err = rg.Open(); err != nil {
			return err
		}
		defer rg.Close()
		gpio = rg
		// the keyboard still works next to the real buttons
		press = func(id blinkmenu.ButtonID) { app.OnEdge(id) }
	default:
		return errors.Errorf("unknown gpio %q", c.String("gpio"))
	}

	app, err = blinkmenu.New(cfg, ledGPIO{GPIO: gpio, led: cfg.LED, disp: disp}, disp, blinkmenu.NewMonotonicClock())
	if err != nil {
		return err
	}
	app.SetLogger(newLogrusLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fatal := make(chan error, 1)
	app.SetFatalHandler(func(err error) {
		select {
		case fatal <- err:
		default:
		}
		// unblocks PollKeys
		screen.Fini()
	})

	if err = app.Init(); err != nil {
		return errors.Wrap(err, "init")
	}
	if err = app.Start(ctx); err != nil {
		return err
	}
	logger.WithFields(log.Fields{
		"gpio":    c.String("gpio"),
		"bounce":  cfg.BounceWindow().Duration(),
		"queue":   cfg.QueueCapacity,
		"bounces": c.Int("bounces"),
	}).Info("simulator running")

	disp.PollKeys(press)
	cancel()

	select {
	case err = <-fatal:
		return err
	default:
	}
	logger.WithField("dropped", app.Queue().Dropped()).Info("simulator stopped")
	return nil
}
