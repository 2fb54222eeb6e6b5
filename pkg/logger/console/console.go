// Package console provides the stderr logging backend built on
// charmbracelet/log.
package console

import (
	"os"

	"github.com/charmbracelet/log"
)

// Console writes structured records to stderr.
type Console struct {
	l *log.Logger
}

// Params configures a Console backend.
type Params struct {
	// Debug lowers the level threshold to include DEBUG records.
	Debug bool
	// Prefix tags every record, typically with the binary name.
	Prefix string
}

// New builds a Console backend.
func New(params Params) *Console {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	return &Console{
		l: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Level:           level,
			Prefix:          params.Prefix,
		}),
	}
}

func (c *Console) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *Console) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *Console) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *Console) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

// Fatal logs the record and exits the process.
func (c *Console) Fatal(msg string, keyvals ...any) { c.l.Fatal(msg, keyvals...) }
