package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger is a small leveled console logger. Each component creates its own
// named instance so log lines can be traced back to the subsystem.
type Logger struct {
	serviceName string
}

var levelEmoji = map[string]string{
	"INFO":    "ℹ️ ",
	"SUCCESS": "✅ ",
	"WARN":    "⚠️ ",
	"ERROR":   "❌ ",
	"DEBUG":   "🔍 ",
}

func New(serviceName string) *Logger {
	return &Logger{serviceName: serviceName}
}

func (l *Logger) formatMessage(level, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s | %s | %s | %s:%d | %s | %s",
		levelEmoji[level],
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		filepath.Base(file),
		line,
		l.serviceName,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.formatMessage("INFO", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.formatMessage("SUCCESS", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.formatMessage("WARN", fmt.Sprintf(msg, args...)))
}

// Error logs the message and returns it wrapped around err so call sites can
// `return log.Error(...)` directly.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	formatted := fmt.Sprintf(msg, args...)
	color.Red(l.formatMessage("ERROR", fmt.Sprintf("%s: %v", formatted, err)))
	return fmt.Errorf("%s: %w", formatted, err)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	color.Magenta(l.formatMessage("DEBUG", fmt.Sprintf(msg, args...)))
}
