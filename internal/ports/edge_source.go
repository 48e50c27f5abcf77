package ports

import "context"

// EdgeFunc is invoked synchronously for every qualifying electrical edge on
// any monitored line, rising or falling. Implementations of the handler
// must complete in bounded time and must not allocate, lock, or perform
// I/O: the source may call it from its time-critical context.
type EdgeFunc func()

// EdgeSource drives the capture pipeline by firing the handler once per
// observed edge.
type EdgeSource interface {
	// Run delivers edges to fire until the context is canceled or the
	// source is exhausted. A finite source (replay without follow) returns
	// nil on exhaustion; ctx.Err() is returned on cancellation.
	Run(ctx context.Context, fire EdgeFunc) error
}
