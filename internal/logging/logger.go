package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the bootstrap logger: JSON to stdout, level taken
// from LOG_LEVEL. It runs before the database connects; main swaps in
// the MultiHandler with the Postgres handler once a connection exists.
func Setup() {
	slog.SetDefault(slog.New(StdoutHandler()))
}

// StdoutHandler builds the JSON stdout handler used at bootstrap and
// again inside the fan-out once the Postgres handler joins it.
func StdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
