// Package log creates [slog.Handler] instances backed by charmbracelet/log.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

var ErrInvalidLogArgument = errors.New("invalid log argument")

// Format selects the output encoding of a handler.
type Format int

const (
	FormatText Format = iota
	FormatLogfmt
	FormatJSON
)

// CreateHandler creates a [slog.Handler] writing to w at the given level.
//
//nolint:ireturn
func CreateHandler(w io.Writer, lvl slog.Level, format Format) slog.Handler {
	opts := charmlog.Options{
		// charmbracelet/log levels share slog's numeric scale.
		Level:           charmlog.Level(lvl),
		ReportTimestamp: true,
	}

	switch format {
	case FormatJSON:
		opts.Formatter = charmlog.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = charmlog.LogfmtFormatter
	case FormatText:
		opts.Formatter = charmlog.TextFormatter
	}

	return charmlog.NewWithOptions(w, opts)
}

// CreateHandlerWithStrings creates a [slog.Handler] from string level and
// format arguments, typically CLI flag values.
//
//nolint:ireturn
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	lvl, err := GetLevel(logLevel)
	if err != nil {
		return nil, err
	}

	format, err := GetFormat(logFormat)
	if err != nil {
		return nil, err
	}

	return CreateHandler(w, lvl, format), nil
}

// GetLevel parses a [slog.Level] from a string.
func GetLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidLogArgument, level)
	}
}

// GetFormat parses a [Format] from a string.
func GetFormat(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return FormatText, nil
	case "logfmt":
		return FormatLogfmt, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("%w: unknown log format %q", ErrInvalidLogArgument, format)
	}
}
