package blinkmenu

import (
	"fmt"
)

type Logger interface {
	Debug(msg string)
	Debugf(format string, v ...any)
	Info(msg string)
	Infof(format string, v ...any)
}

// stderrLogger writes to whatever println is hooked up to, which on a board is the serial console. It has no
// concept of levels; debug output is dropped unless verbose is set.
type stderrLogger struct {
	verbose bool
}

// ConsoleLogger returns the println-backed logger used on the board.
func ConsoleLogger(verbose bool) Logger {
	return stderrLogger{verbose: verbose}
}

func (l stderrLogger) Debug(msg string) {
	if l.verbose {
		println(msg)
	}
}

func (l stderrLogger) Debugf(format string, v ...any) {
	if l.verbose {
		println(fmt.Sprintf(format, v...))
	}
}

func (stderrLogger) Info(msg string) {
	println(msg)
}

func (stderrLogger) Infof(format string, v ...any) {
	println(fmt.Sprintf(format, v...))
}
