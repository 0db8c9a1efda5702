package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler selects a profiling mode and where its output is written.
// The zero value profiles nothing.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling and returns the handle that ends it. An empty or
// unknown Mode, or a build without the pprof tag, yields a no-op; both
// Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Enabled {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
