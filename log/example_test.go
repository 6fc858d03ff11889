package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/denv/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("loaded", slog.String("path", ".env"), slog.Int("vars", 3))

	// Output:
	// level=INFO msg=loaded path=.env vars=3
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))

	// Output:
	// level=WARN msg="warning message" key=value
}

func Example_withContext() {
	type requestIDKey struct{}

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-789")

	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"),
		log.WithPretty(false)).With(slog.String("component", "editor"))

	logger.TraceContext(ctx, "upsert", slog.String("key", "PORT"))

	// Output:
	// level=TRACE msg=upsert component=editor key=PORT
}
