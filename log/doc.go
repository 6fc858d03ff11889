// Package log provides a simplified, attribute-only logging interface based
// on [log/slog].
//
// Loggers are immutable values. Options are applied when a logger is made,
// and deriving a new logger never affects the one it came from.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("loaded", slog.String("path", path), slog.Int("vars", n))
//
// The zero [Logger] discards everything, so it can be embedded in types that
// log optionally.
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339nano"),
//		log.WithCaller(true))
//
// The package-level functions write through a default logger that may be
// reconfigured with [Config].
//
// # Levels
//
// In addition to the [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] for very chatty diagnostics such as per-token parser output.
//
// # Pretty Output
//
// With [WithPretty], keys and values are colorized using lipgloss styles.
// Colors are omitted when the output is not a terminal.
package log
