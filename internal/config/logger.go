package config

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs the process-wide structured logger. Unknown level
// names fall back to info and are reported once the logger is up, so a
// typo in LOG_LEVEL does not silently mute anything.
func InitLogger(cfg *Config) {
	var level slog.Level
	levelErr := level.UnmarshalText([]byte(cfg.LogLevel))
	if levelErr != nil {
		level = slog.LevelInfo
	}

	out := os.Stdout
	if strings.ToLower(cfg.LogOutput) == "stderr" {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))

	if levelErr != nil {
		slog.Warn("Unknown log level, using info", "level", cfg.LogLevel)
	}

	slog.Info("Logger initialized",
		"level", level.String(),
		"format", cfg.LogFormat,
		"output", cfg.LogOutput,
	)
}
