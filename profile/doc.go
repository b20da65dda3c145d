// Package profile provides optional runtime profiling for ycomp.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof -o ycomp .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Dir: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// From the command line:
//
//	ycomp --pprof-mode=cpu compose main.yaml
//	go tool pprof -http=: ~/.cache/ycomp/pprof/cpu.pprof
//
// With the tag, the package also registers the [net/http/pprof] handlers
// under /debug/pprof/ on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`

// Profiler selects a profiling mode and the directory profiles are written
// to. The zero Profiler profiles nothing.
type Profiler struct {
	Mode  string
	Dir   string
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. Both Start and the returned Stop are always safe
// to call: an empty or unknown mode, or a build without the pprof tag,
// profiles nothing.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
