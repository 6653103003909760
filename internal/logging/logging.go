// Package logging holds the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It writes warnings to stderr until Init runs.
var Log = newLogger(os.Stderr, logrus.WarnLevel)

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(level)
	l.SetOutput(w)
	return l
}

// Init configures Log. Output always goes to stderr, since stdout may carry
// machine-readable results; filePath adds a second, appended destination.
// An unknown level falls back to info.
func Init(levelStr, filePath string) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
	}

	Log = newLogger(io.MultiWriter(writers...), level)
	return nil
}

// Discard silences Log. Tests call it to keep output clean.
func Discard() {
	Log.SetOutput(io.Discard)
}
