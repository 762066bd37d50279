package logging

import (
	"log/slog"
	"os"
)

// Setup installs the bootstrap logger: JSON to stdout at INFO. It runs before
// the database connects; once it has, main swaps the default for a
// MultiHandler that adds the system_logs sink on top of this one.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
