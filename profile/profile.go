package profile

// Tag is the build tag that enables profiling, also used as the name of the
// default output subdirectory.
const Tag = "pprof"

// Profiler configures a profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log output
}

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Start starts the profiler and returns a [Stopper] for it.
//
// If the binary was built without the pprof tag, or Mode is empty or not
// supported, Start returns a no-op [Stopper]. Both Start and Stop are always
// safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
