package hwtbuild

import (
	"io"
	"os"
	"sync"

	"github.com/phuslu/log"
)

var (
	loggerMu sync.RWMutex
	logger   = NewLogger(os.Stderr, "info")
)

// NewLogger builds a console logger. Build scripts own stdout for directives,
// so w is normally os.Stderr.
func NewLogger(w io.Writer, level string) *log.Logger {
	return &log.Logger{
		Level: log.ParseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    false,
			EndWithMessage: true,
		},
	}
}

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Logger returns the package logger.
func Logger() *log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
