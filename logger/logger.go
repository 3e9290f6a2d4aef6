// Package logger builds the logrus logger shared by the console server and the CLI.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/user/labconsole/config"
)

// New returns a logrus logger configured from cfg. Output goes to stderr so
// CLI commands can keep stdout for their own results.
func New(cfg *config.LogConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(cfg *config.LogConfig, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if err != nil {
		l.WithField("level", cfg.Level).Warn("unknown log level, using info")
	}
	return l
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
