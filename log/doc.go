// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Attributes are always [slog.Attr] values, never alternating key/value
// arguments:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("linearized", slog.String("text", text))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is
// rendered as TRACE.
//
// # Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With
// [WithPretty], text output is colorized with lipgloss styles; colors
// are dropped when the writer is not a terminal.
//
// # Package Logger
//
// The package-level functions ([Info], [Debug], and so on) write through
// a shared logger that [Config] reconfigures. Context-unaware variants use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
