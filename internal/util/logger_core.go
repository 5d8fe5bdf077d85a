package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const logTimeFormat = "2006/01/02 15:04:05"

// NewLogger builds a zerolog logger writing to the console in debug mode
// and to logFile otherwise. Both outputs are used when both are requested.
func NewLogger(levelStr string, logFile string, debugToConsole bool) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if debugToConsole {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: logTimeFormat})
	}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: logTimeFormat})
		closer = file
	} else if !debugToConsole {
		return zerolog.Nop(), nil, fmt.Errorf("log file must be specified when not in debug mode")
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLogLevel(levelStr)).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

// parseLogLevel parses a log level string, falling back to info
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "warning":
		return zerolog.WarnLevel
	case "":
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
