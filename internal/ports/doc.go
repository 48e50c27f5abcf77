// Package ports defines the interfaces that connect the capture core to
// infrastructure adapters.
//
// The core (internal/capture, internal/app) depends only on these
// interfaces. Adapters (internal/adapters) implement them with concrete
// sources and sinks: an in-memory bus image, a replay file source, a serial
// or file record sink.
//
// # Port Interfaces
//
//   - [BusReader]: atomic snapshot of all monitored lines
//   - [EdgeSource]: delivers edge notifications to the producer
//   - [RecordSink]: receives the rendered record stream
//
// Keeping these boundaries explicit is what lets the concurrency contract
// of the ring buffer be enforced by module structure rather than comments:
// nothing outside internal/capture can reach the producer side, nothing
// outside internal/app can reach the consumer side.
package ports
