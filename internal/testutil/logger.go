package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a JSON logger that writes nowhere, for wiring services
// and handlers in tests without log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
