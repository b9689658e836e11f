// Package output provides terminal output utilities.
package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logger is the global logger instance.
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// LogConfig controls logger construction.
type LogConfig struct {
	// Verbose enables debug level, caller reporting and forces timestamps on.
	Verbose bool

	// Timestamps overrides timestamp display. nil means on.
	Timestamps *bool

	// File, when set, receives a copy of every log line. The file is rotated
	// once it grows past MaxSizeMB.
	File string

	// MaxSizeMB is the rotation threshold for File. Zero means 10.
	MaxSizeMB int
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

func (c LogConfig) timestamps() bool {
	if c.Verbose {
		return true
	}
	if c.Timestamps != nil {
		return *c.Timestamps
	}
	return true
}

func (c LogConfig) writer() io.Writer {
	if c.File == "" {
		return os.Stderr
	}
	size := c.MaxSizeMB
	if size == 0 {
		size = 10
	}
	return io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    size,
		MaxBackups: 3,
		Compress:   true,
	})
}

// SetupLogging configures the global logger.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(cfg.writer(), log.Options{
		Level:           level,
		ReportTimestamp: cfg.timestamps(),
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// StageLogger returns a child logger whose lines are prefixed with the
// pipeline stage name.
func StageLogger(stage string) *log.Logger {
	l := logger.With()
	l.SetPrefix(StyleDim.Render("s:") + StyleNoun.Render(stage))
	return l
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Details prints multi-line text to stderr without log decoration.
func Details(text string) {
	os.Stderr.WriteString(strings.TrimRight(text, "\n") + "\n")
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
