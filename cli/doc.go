// Package cli contains the command line interface for denv.
//
// # Usage
//
//	denv [flags] <command> [args]
//
// Every command reads the sources given with --source (-s). The first
// source is parsed and the others are merged into it in order; "-" reads
// standard input:
//
//	denv -s .env -s .env.local fmt json
//	denv -s .env get DB_HOST
//	denv -s .env set --write PORT 9090
//	denv -s .env set --prepend PATH /opt/bin
//	denv -s .env find dbh
//	denv -s .env eval 'PORT + 1'
//
// # Configuration
//
// Default flag values are read from config.env in the user configuration
// directory (see [github.com/ardnew/denv/pkg.ConfigDir]). The file is a .env
// file whose names are flag names in upper case with '-' replaced by '_':
//
//	LOG_LEVEL=debug
//	CAST_NUMERIC=false
//
// The init command writes this file from the current flag values. Flags can
// also be set with environment variables prefixed DENV_, e.g. DENV_LOG_LEVEL.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp layout (RFC3339, RFC3339Nano, none, ...)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o denv .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
