package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// envLogLevel enables debug logging when set to "debug".
const envLogLevel = "SEGMENT_MCP_LOG_LEVEL"

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel picks debug when verbose is set or the environment asks for it.
func logLevel(verbose bool, env string) log.Level {
	if verbose || env == "debug" {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...interface{}) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
