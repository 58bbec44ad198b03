// Package log provides named, leveled loggers for the renderer subsystems.
// It is a thin layer over go-logging so the output sink and verbosity can
// be swapped in one place (CLI flags, web render capture, tests).
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level selects the minimum severity that gets emitted
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelMap = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module:-10s} %{level:-8s}%{color:reset} %{message}`,
)

var backend logging.LeveledBackend

// Logger is the subset of go-logging used by the renderer packages
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the named logger for a subsystem (e.g. "renderer", "web")
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all loggers to the given writer, keeping the current
// level
func SetSink(sink io.Writer) {
	raw := logging.NewLogBackend(sink, "", 0)
	backend = logging.AddModuleLevel(logging.NewBackendFormatter(raw, format))
	backend.SetLevel(logging.INFO, "")
	logging.SetBackend(backend)
}

// SetLevel sets the minimum severity for all loggers
func SetLevel(level Level) {
	mapped, ok := levelMap[level]
	if !ok {
		mapped = logging.INFO
	}
	backend.SetLevel(mapped, "")
}

func init() {
	SetSink(os.Stderr)
	SetLevel(Info)
}
