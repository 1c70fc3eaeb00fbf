package commands

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// slogLogger adapts a slog.Logger to beer.Logger.
type slogLogger struct {
	logger *slog.Logger
}

// newLogger returns a logger writing text or JSON lines to w, or nil when
// neither verbose nor debug output is requested.
func newLogger(w io.Writer, verbose, debug bool, format string) beer.Logger {
	if !verbose && !debug {
		return nil
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(w, options)
	if format == constants.FormatJSON {
		handler = slog.NewJSONHandler(w, options)
	}

	return &slogLogger{logger: slog.New(handler)}
}

func (l *slogLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, msg, fields)
}

func (l *slogLogger) Info(msg string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, msg, fields)
}

func (l *slogLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, msg, fields)
}

func (l *slogLogger) Error(msg string, fields map[string]interface{}) {
	l.log(slog.LevelError, msg, fields)
}

func (l *slogLogger) log(level slog.Level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, slog.Any(key, fields[key]))
	}

	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
