package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bootsmith/bootsmith/types"
)

// Logger filters and prints messages to a destination. A tag, usually the
// architecture or platform being built, prefixes every line.
type Logger struct {
	output io.Writer
	tag    string
	info   bool
	warn   bool
	err    bool
	debug  bool
}

// New returns a Logger writing to output with every level disabled.
func New(output io.Writer) *Logger {
	return &Logger{output: output}
}

// WithTag returns a copy of the logger whose lines carry the given tag.
func (l *Logger) WithTag(tag string) *Logger {
	c := *l
	c.tag = tag
	return &c
}

// SetInfo activates/deactivates info level
func (l *Logger) SetInfo(value bool) {
	l.info = value
}

// SetWarn activates/deactivates warn level
func (l *Logger) SetWarn(value bool) {
	l.warn = value
}

// SetError activates/deactivates error level
func (l *Logger) SetError(value bool) {
	l.err = value
}

// SetDebug activates/deactivates debug level
func (l *Logger) SetDebug(value bool) {
	l.debug = value
}

// Log writes a formatted message to the output regardless of level.
func (l *Logger) Log(format string, a ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}
	if l.tag != "" {
		format = "[" + l.tag + "] " + format
	}
	fmt.Fprintf(l.output, format, a...)
}

func (l *Logger) logWithColor(color string, format string, a ...interface{}) {
	l.Log(color+format+ConsoleColors.Reset(), a...)
}

// Info writes the formatted message when info level is active.
func (l *Logger) Info(format string, a ...interface{}) {
	if l.info {
		l.logWithColor(ConsoleColors.Blue(), format, a...)
	}
}

// Warn writes the formatted message when warn level is active.
func (l *Logger) Warn(format string, a ...interface{}) {
	if l.warn {
		l.logWithColor(ConsoleColors.Yellow(), format, a...)
	}
}

// Error writes the error regardless of level.
func (l *Logger) Error(err error) {
	l.logWithColor(ConsoleColors.Red(), "%v", err)
}

// Errorf writes the formatted message regardless of level.
func (l *Logger) Errorf(format string, a ...interface{}) {
	l.logWithColor(ConsoleColors.Red(), format, a...)
}

// Debug writes the formatted message when debug level is active.
func (l *Logger) Debug(format string, a ...interface{}) {
	if l.debug {
		l.logWithColor(ConsoleColors.Cyan(), format, a...)
	}
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(os.Stdout)
}

// InitDefault creates the default logger for package-level logging access.
func InitDefault(output io.Writer, config *types.Config) {
	defaultLogger = New(output)

	if config == nil {
		return
	}

	if config.RunConfig.ShowDebug {
		defaultLogger.SetDebug(true)
		defaultLogger.SetWarn(true)
		defaultLogger.SetError(true)
		defaultLogger.SetInfo(true)
	}

	if config.RunConfig.ShowWarnings {
		defaultLogger.SetWarn(true)
	}

	if config.RunConfig.ShowErrors {
		defaultLogger.SetError(true)
	}

	if config.RunConfig.Verbose {
		defaultLogger.SetInfo(true)
	}
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// Info logs an info-level message using the default logger.
func Info(format string, a ...interface{}) {
	defaultLogger.Info(format, a...)
}

// Warn logs a warning-level message using the default logger.
func Warn(format string, a ...interface{}) {
	defaultLogger.Warn(format, a...)
}

// Error logs an error using the default logger.
func Error(err error) {
	defaultLogger.Error(err)
}

// Errorf logs an error-level formatted message using the default logger.
func Errorf(format string, a ...interface{}) {
	defaultLogger.Errorf(format, a...)
}

// Debug logs a debug-level message using the default logger.
func Debug(format string, a ...interface{}) {
	defaultLogger.Debug(format, a...)
}
