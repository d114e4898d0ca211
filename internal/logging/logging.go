package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "meshtools",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	return logger()
}

// SetLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names leave the level unchanged and are reported.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects the shared logger, mainly for tests.
func SetOutput(w io.Writer) {
	logger().SetOutput(w)
}

func Debug(msg string, keyvals ...interface{}) {
	logger().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	logger().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	logger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	logger().Error(msg, keyvals...)
}
