// Package io provides the program image and observation channels for the
// LS-8 emulator. It includes the binary-literal program image (Rom), an
// output stream channel (Tape), and an in-memory recording channel
// (Temporary).
package io

// Channel defines the interface for the LS-8 observation channel.
// The PRN instruction sends register values to it.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send emits a single value.
	Send(value int64) error
}
