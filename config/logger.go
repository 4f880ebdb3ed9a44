package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger returns an slog logger backed by charmbracelet/log. format is
// "text", "json" or "logfmt".
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(orDefault(level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	var formatter log.Formatter
	switch format {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected text, json or logfmt", format)
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}
