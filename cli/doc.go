// Package cli contains the command line interface for ycomp.
//
// # Usage
//
//	ycomp [flags] compose FILE [-D key=value]... [--vars-file F]...
//	ycomp [flags] check FILE
//	ycomp [flags] init [--force]
//
// compose is the default command, so "ycomp main.yaml" composes main.yaml
// to standard output. Warnings are reported on standard error after the
// document is composed.
//
// # Configuration File
//
// Default flag values are read from config.yaml in the user configuration
// directory (see [pkg.ConfigDir]). The file is itself composed, so it may
// use !include, !sub and the other tags. Nested mappings are flattened into
// hyphenated flag names:
//
//	log:
//	  level: debug
//	  format: text
//	indent: 4
//
// A config.json in the same directory is also read. Command-line flags
// override both. "ycomp init" writes the current flag values as a new
// config.yaml.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (json, text)
//   - --log-time-layout: timestamp format
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ycomp .
//
//   - --pprof-mode: enable profiling (see "ycomp --help")
//   - --pprof-dir: profile output directory (default: ~/.cache/ycomp/pprof)
package cli

