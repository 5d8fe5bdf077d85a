package util

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var (
	globalLogger = zerolog.Nop()
	globalCloser io.Closer
	loggerMu     sync.RWMutex
	initialized  bool
)

// InitLogger initializes the global logger instance with debug mode support.
// Later calls are no-ops until CloseLogger runs.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if initialized {
		return nil
	}

	logger, closer, err := NewLogger(logLevel, logFile, debugToConsole)
	if err != nil {
		return err
	}
	globalLogger = logger
	globalCloser = closer
	initialized = true
	return nil
}

// SetLogger replaces the global logger. Tests use it to capture output.
func SetLogger(logger zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = logger
}

// Logger returns the global logger for components that log structured fields.
func Logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// CloseLogger closes the log file, if any, and resets the global logger.
func CloseLogger() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	var err error
	if globalCloser != nil {
		err = globalCloser.Close()
	}
	globalCloser = nil
	globalLogger = zerolog.Nop()
	initialized = false
	return err
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	l := Logger()
	l.Info().Msg(msg)
}

func LogInfof(format string, args ...interface{}) {
	LogInfo(fmt.Sprintf(format, args...))
}

func LogDebug(msg string) {
	l := Logger()
	l.Debug().Msg(msg)
}

func LogDebugf(format string, args ...interface{}) {
	LogDebug(fmt.Sprintf(format, args...))
}

func LogWarn(msg string) {
	l := Logger()
	l.Warn().Msg(msg)
}

func LogWarnf(format string, args ...interface{}) {
	LogWarn(fmt.Sprintf(format, args...))
}

func LogError(msg string) {
	l := Logger()
	l.Error().Msg(msg)
}

func LogErrorf(format string, args ...interface{}) {
	LogError(fmt.Sprintf(format, args...))
}
