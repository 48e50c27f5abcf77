package ports

// BusReader reads the instantaneous logic level of all monitored lines.
type BusReader interface {
	// Snapshot returns the state of every monitored line as one word read
	// atomically relative to a single point in time: data lines and
	// control/status lines in the result reflect the same instant. It has
	// no side effects and no error conditions; line presence is guaranteed
	// by the surrounding setup.
	Snapshot() uint32
}
