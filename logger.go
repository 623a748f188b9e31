package gotalign

import "log/slog"

// Logger is the package logger. It discards everything until SetLogger is called.
var Logger = slog.New(slog.DiscardHandler)

// SetLogger sets the logger used by workers and engine wrappers.
func SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	Logger = logger
}
