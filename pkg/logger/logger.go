package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

type Loggers struct {
	InfoLogger  *slog.Logger
	ErrorLogger *slog.Logger
	DebugLogger *slog.Logger
}

// SetupLogger builds the loggers for the given level ("debug", "info", "warn",
// "error") and format ("text" for colored console output, "json").
func SetupLogger(level string, format string) (*Loggers, error) {
	return newLoggers(os.Stdout, os.Stderr, level, format)
}

func newLoggers(out, errOut io.Writer, level string, format string) (*Loggers, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var newHandler func(w io.Writer) slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		newHandler = func(w io.Writer) slog.Handler {
			return tint.NewHandler(w, &tint.Options{
				Level:      lvl,
				TimeFormat: "2006-01-02 15:04:05",
			})
		}
	case "json":
		newHandler = func(w io.Writer) slog.Handler {
			return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return &Loggers{
		InfoLogger:  slog.New(newHandler(out)),
		ErrorLogger: slog.New(newHandler(errOut)),
		DebugLogger: slog.New(newHandler(out)),
	}, nil
}
