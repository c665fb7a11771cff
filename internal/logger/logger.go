package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger tagged with the component name.
// The level comes from LOG_LEVEL and defaults to info.
func New(component string) *slog.Logger {
	var level slog.Level
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" || level.UnmarshalText([]byte(raw)) != nil {
		level = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}
