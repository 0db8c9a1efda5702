// Package profile provides optional runtime profiling backed by
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	lambdaeval --pprof-mode cpu linearize 'x => x + y'
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty.
// With it, the package also imports [net/http/pprof], so a program that
// serves HTTP exposes /debug/pprof/.
//
// Profiles are written to [Profiler.Path] under names matching the mode
// (cpu.pprof, mem.pprof, and so on) and are read with go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
