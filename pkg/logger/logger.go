// Package logger is the process-wide logging facade. Call Init once at
// startup with the backends the binary should write to; all packages
// log through the package-level functions. Before Init every call is a
// no-op, which keeps tests quiet without any setup.
package logger

// Backend is a destination for log records.
type Backend interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	Fatal(msg string, keyvals ...any)
}

var backends []Backend

// Init installs the backends used by all subsequent log calls.
func Init(b ...Backend) {
	backends = b
}

// Debug writes a DEBUG record to every backend.
func Debug(msg string, keyvals ...any) {
	for _, b := range backends {
		b.Debug(msg, keyvals...)
	}
}

// Info writes an INFO record to every backend.
func Info(msg string, keyvals ...any) {
	for _, b := range backends {
		b.Info(msg, keyvals...)
	}
}

// Warn writes a WARN record to every backend.
func Warn(msg string, keyvals ...any) {
	for _, b := range backends {
		b.Warn(msg, keyvals...)
	}
}

// Error writes an ERROR record to every backend.
func Error(msg string, keyvals ...any) {
	for _, b := range backends {
		b.Error(msg, keyvals...)
	}
}

// Fatal writes a FATAL record to every backend; the backend is expected
// to terminate the process.
func Fatal(msg string, keyvals ...any) {
	for _, b := range backends {
		b.Fatal(msg, keyvals...)
	}
}
