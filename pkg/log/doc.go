// Package log provides the structured logging abstraction used across the
// pipeline.
//
// The core depends only on the [Logger] interface; the zerolog adapter is
// the default implementation and [Noop] silences everything (useful when
// the capture stream itself goes to stderr). Diagnostics always go through
// a Logger; the record stream never does.
package log
