package logger

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
)

type Logger = *slog.Logger

func level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func NewLogger(debug bool) Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level(debug),
		TimeFormat: time.TimeOnly,
	}))
}

// NewLoggerWithSentry creates a logger that auto-reports errors to Sentry
func NewLoggerWithSentry(debug bool) Logger {
	tintHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level(debug),
		TimeFormat: time.TimeOnly,
	})
	return slog.New(NewSentryHandler(tintHandler))
}

// Setup initializes Sentry when dsn is set and returns the matching logger.
// The returned func flushes pending events and must be called before exit.
func Setup(dsn string, debug bool) (Logger, func(), error) {
	if dsn == "" {
		return NewLogger(debug), func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return nil, nil, fmt.Errorf("init sentry: %w", err)
	}
	flush := func() { sentry.Flush(2 * time.Second) }
	return NewLoggerWithSentry(debug), flush, nil
}
