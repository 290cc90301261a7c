// Package logger is a leveled key/value logging facade. Backends are
// installed once with Init; until then every call is a no-op.
package logger

import "sync/atomic"

// Instance is a logging backend
type Instance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
}

// Logger dispatches log calls to all of its backends
type Logger struct {
	instances []Instance
}

var singleton atomic.Pointer[Logger]

// Init installs the given backends, replacing any installed before.
// Calling Init with no backends silences logging.
func Init(instances ...Instance) {
	if len(instances) == 0 {
		singleton.Store(nil)
		return
	}
	singleton.Store(&Logger{instances: instances})
}

// Debug writes a message at DEBUG level to all backends
func Debug(message string, keyvals ...any) {
	if l := singleton.Load(); l != nil {
		for _, instance := range l.instances {
			instance.Debug(message, keyvals...)
		}
	}
}

// Info writes a message at INFO level to all backends
func Info(message string, keyvals ...any) {
	if l := singleton.Load(); l != nil {
		for _, instance := range l.instances {
			instance.Info(message, keyvals...)
		}
	}
}

// Warn writes a message at WARN level to all backends
func Warn(message string, keyvals ...any) {
	if l := singleton.Load(); l != nil {
		for _, instance := range l.instances {
			instance.Warn(message, keyvals...)
		}
	}
}

// Error writes a message at ERROR level to all backends
func Error(message string, keyvals ...any) {
	if l := singleton.Load(); l != nil {
		for _, instance := range l.instances {
			instance.Error(message, keyvals...)
		}
	}
}
