package logging

import (
	"fmt"
)

// LegacyAdapter adapts the structured logger to a printf-style interface
// for collaborators that only know how to format messages.
type LegacyAdapter struct {
	logger Logger
}

// NewLegacyAdapter creates a new legacy adapter
func NewLegacyAdapter(logger Logger) *LegacyAdapter {
	return &LegacyAdapter{logger: logger}
}

// Debug logs a debug message using printf-style formatting
func (a *LegacyAdapter) Debug(msg string, args ...interface{}) {
	a.logger.Debug(fmt.Sprintf(msg, args...))
}

// Info logs an info message using printf-style formatting
func (a *LegacyAdapter) Info(msg string, args ...interface{}) {
	a.logger.Info(fmt.Sprintf(msg, args...))
}

// Warn logs a warning message using printf-style formatting
func (a *LegacyAdapter) Warn(msg string, args ...interface{}) {
	a.logger.Warn(fmt.Sprintf(msg, args...))
}

// Error logs an error message using printf-style formatting
func (a *LegacyAdapter) Error(msg string, args ...interface{}) {
	a.logger.Error(fmt.Sprintf(msg, args...))
}

// globalLogger is the default logger used by the package-level helpers
var globalLogger Logger

func init() {
	globalLogger = New(nil, nil)
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger Logger) {
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	return globalLogger
}

// Debug logs a debug message to the global logger
func Debug(msg string, fields ...Field) {
	globalLogger.Debug(msg, fields...)
}

// Info logs an info message to the global logger
func Info(msg string, fields ...Field) {
	globalLogger.Info(msg, fields...)
}

// Warn logs a warning message to the global logger
func Warn(msg string, fields ...Field) {
	globalLogger.Warn(msg, fields...)
}

// LogError logs an error message to the global logger
func LogError(msg string, fields ...Field) {
	globalLogger.Error(msg, fields...)
}
