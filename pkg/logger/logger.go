// Package logger provides the zap logger used across Airwave binaries.
package logger

import "go.uber.org/zap"

// New returns a production zap logger, or a human-readable development
// logger when debug is set.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Nop returns a logger that discards everything. Used in tests and as a
// default when callers pass nil.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns l, or a nop logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
