// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("composed", slog.String("file", path))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Text output is styled with terminal colors unless [WithPretty] disables
// it. Colors are never written to a writer that is not a terminal.
//
// # Buffering
//
// A [Buffer] is a [slog.Handler] that holds records in memory. The composer
// logs its warnings into one so that a caller can report them together
// once a run has finished:
//
//	buf := log.NewBuffer(log.LevelWarn)
//	// ... compose with buf.Logger() ...
//	for _, e := range buf.Warnings() {
//		fmt.Println(e.Text())
//	}
//
// A record carrying a [LocationKey] attribute has it lifted into
// [Entry.Location].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug]. Messages below the configured
// level are discarded.
package log
