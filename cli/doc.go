// Package cli contains the command line interface for lambdaeval.
//
// # Usage
//
// The default command linearizes a lambda against a frame snapshot:
//
//	lambdaeval --frame cart.yaml 'x => x * rate'
//	lambdaeval -f cart.yaml invoke 'x => x * rate' 10
//	lambdaeval typename --lambda 'x => x' 'System.Func`2[[System.Int32],[System.Int32]]'
//	lambdaeval -f cart.yaml repl
//
// Without --frame, commands run against an empty frame whose enclosing type
// is set by --enclosing.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory ([os.UserConfigDir]/lambdaeval). Keys name flags, either
// directly ("log-level: debug") or nested ("log: {level: debug}").
// The init command writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output (default when stderr is a terminal)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lambdaeval .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/lambdaeval/pprof)
package cli
