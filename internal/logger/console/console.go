package console

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger implements logger.Instance using charmbracelet/log
type Logger struct {
	logger *log.Logger
}

// Params configures a console logger
type Params struct {
	Level  string    // debug, info, warn, error; default info
	Output io.Writer // default stderr
}

// New creates a console logger
func New(params Params) *Logger {
	level, err := log.ParseLevel(params.Level)
	if err != nil {
		level = log.InfoLevel
	}
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		logger: log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			Level:           level,
		}),
	}
}

// Debug writes a message at DEBUG level
func (c *Logger) Debug(message string, keyvals ...any) {
	c.logger.Debug(message, keyvals...)
}

// Info writes a message at INFO level
func (c *Logger) Info(message string, keyvals ...any) {
	c.logger.Info(message, keyvals...)
}

// Warn writes a message at WARN level
func (c *Logger) Warn(message string, keyvals ...any) {
	c.logger.Warn(message, keyvals...)
}

// Error writes a message at ERROR level
func (c *Logger) Error(message string, keyvals ...any) {
	c.logger.Error(message, keyvals...)
}
