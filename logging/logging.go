// Package logging provides sage's optional file logger. Logging is off by
// default; set SAGE_LOG_FILE to enable it and SAGE_LOG_LEVEL to control
// verbosity (debug, info, warn, error).
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logger     *log.Logger
	loggerOnce sync.Once
	logEnabled bool
)

func init() {
	logPath := os.Getenv("SAGE_LOG_FILE")
	if logPath == "" {
		return
	}

	level := log.InfoLevel
	switch strings.ToLower(os.Getenv("SAGE_LOG_LEVEL")) {
	case "debug":
		level = log.DebugLevel
	case "warn", "warning":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}

	if err := Init(logPath, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
}

// Init opens the log file and configures the logger. An empty path leaves
// logging disabled.
func Init(logPath string, level log.Level) error {
	var initErr error
	loggerOnce.Do(func() {
		if logPath == "" {
			return
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = err
			return
		}
		logger = log.NewWithOptions(f, log.Options{
			Level:           level,
			Prefix:          "sage",
			ReportTimestamp: true,
		})
		logEnabled = true
	})
	return initErr
}

// SetLogger injects a custom logger, mainly for tests.
func SetLogger(l *log.Logger) {
	logger = l
	logEnabled = l != nil
}

// Debug logs at debug level when logging is enabled.
func Debug(msg string, keyvals ...any) {
	if logEnabled {
		logger.Debug(msg, keyvals...)
	}
}

// Info logs at info level when logging is enabled.
func Info(msg string, keyvals ...any) {
	if logEnabled {
		logger.Info(msg, keyvals...)
	}
}

// Warn logs at warn level when logging is enabled.
func Warn(msg string, keyvals ...any) {
	if logEnabled {
		logger.Warn(msg, keyvals...)
	}
}

// Error logs at error level when logging is enabled.
func Error(msg string, keyvals ...any) {
	if logEnabled {
		logger.Error(msg, keyvals...)
	}
}
