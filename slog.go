package slackrelay

import (
	"fmt"
	"io"
	"log"
)

// SLogger is the slackrelay internal logging interface. The standard library logger implements this interface
type SLogger interface {
	Printf(format string, v ...interface{})

	Debugf(format string, v ...interface{})
}

type sLogger struct {
	logger *log.Logger
	debug  bool
}

// NewSLogger creates a new slackrelay logger wrapping a standard library logger with debug gating
func NewSLogger(log *log.Logger, debug bool) (l *sLogger) {
	sl := new(sLogger)
	sl.debug = debug
	sl.logger = log
	return sl
}

// newSLoggerWithWriter creates a new slackrelay logger writing to w with the default flags
func newSLoggerWithWriter(w io.Writer, debug bool) (l *sLogger) {
	return NewSLogger(log.New(w, "", log.LstdFlags), debug)
}

// Debugf logs a debug line after checking if the logger is in debug mode
func (sl *sLogger) Debugf(format string, v ...interface{}) {
	if sl.debug {
		sl.Printf(fmt.Sprintf(format, v...))
	}
}

// Printf logs a line by delegating the call to Output
func (sl *sLogger) Printf(format string, v ...interface{}) {
	sl.logger.Output(2, fmt.Sprintf(format, v...))
}
