// Package domain contains the core entities and value objects for the
// capture pipeline.
//
// This is the innermost layer: it has no dependencies on transport, file
// system, or logging concerns and contains only the data model and the pure
// encoding rules.
//
// # Entities
//
//   - [Frame]: one timestamped snapshot of the monitored bus
//   - [StatusBits]: the packed control/status lines of a frame
//   - [PinMap]: bit positions of the bus lines within a raw snapshot word
//   - [LineSet]: the set of status lines enabled for output
//
// # Design Principles
//
// Frames are immutable values of fixed size. Encoding is a pure function of
// the raw snapshot word and the timestamp, so the time-critical producer
// never allocates.
package domain
