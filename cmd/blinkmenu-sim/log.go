//go:build !tinygo

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/espwerk/blinkmenu"
)

// logrusLogger routes app logging through logrus, which the simulator sends to a file so the terminal stays clean.
type logrusLogger struct {
	entry *log.Entry
}

var _ blinkmenu.Logger = logrusLogger{}

func newLogrusLogger(l *log.Logger) logrusLogger {
	return logrusLogger{entry: l.WithField("component", "app")}
}

func (l logrusLogger) Debug(msg string) { l.entry.Debug(msg) }

func (l logrusLogger) Debugf(format string, v ...any) { l.entry.Debugf(format, v...) }

func (l logrusLogger) Info(msg string) { l.entry.Info(msg) }

func (l logrusLogger) Infof(format string, v ...any) { l.entry.Infof(format, v...) }
