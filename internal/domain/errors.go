package domain

import "errors"

// Domain errors returned by the public API; check with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running pipeline.
	ErrAlreadyRunning = errors.New("paralax: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped pipeline.
	ErrNotRunning = errors.New("paralax: not running")

	// ErrNotQuiesced is returned when a session reset is attempted while the
	// producer or the drain loop may still be active.
	ErrNotQuiesced = errors.New("paralax: pipeline not quiesced")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("paralax: invalid configuration")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("paralax: shutdown timeout")
)
