package xlogger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Level     string `yaml:"level" json:"level" env:"log_level"`
	Format    string `yaml:"format" json:"format" env:"log_format"`
	AddSource bool   `yaml:"add_source" json:"add_source" env:"log_add_source"`

	// Output defaults to os.Stderr so stdout stays free for results.
	Output io.Writer `yaml:"-" json:"-"`
}

func (c *Config) Default() {
	*c = Config{
		Level:  "info",
		Format: "text",
	}
}

func New(conf Config) *slog.Logger {
	level, err := ParseLevel(conf.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: conf.AddSource,
		Level:     level,
	}

	out := conf.Output
	if out == nil {
		out = os.Stderr
	}

	return slog.New(getHandler(conf.Format, out, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
// An empty string means info.
func ParseLevel(logLevel string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("xlogger: unknown log level %q", logLevel)
	}
}

// ValidFormat reports whether format names a supported handler.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", "text", "json":
		return true
	default:
		return false
	}
}

func getHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(out, opts)

	default:
		return slog.NewTextHandler(out, opts)
	}
}
