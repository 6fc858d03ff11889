// Package profile provides optional runtime profiling for denv using
// [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the pprof build tag:
//
//	go build -tags pprof .
//	denv --pprof-mode=cpu fmt json -s .env
//
// Without the tag every operation is a no-op, [Enabled] is false and
// [Modes] is empty.
//
// Profile files are written to the configured directory with names matching
// the profiling mode (e.g. cpu.pprof, mem.pprof) and can be inspected with
// go tool pprof.
package profile
