package io

import (
	"iter"
	"slices"
)

// Temporary records the values sent to it, in order.
// A Capacity of zero is unbounded.
type Temporary struct {
	Capacity int // Capacity in values.

	Data []int64
}

var _ Channel = (*Temporary)(nil)

// Rewind discards all recorded values.
func (temp *Temporary) Rewind() {
	temp.Data = temp.Data[:0]
}

// Receive returns an iterator over the recorded values.
func (temp *Temporary) Receive() iter.Seq[int64] {
	return slices.Values(temp.Data)
}

// Send records a value.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Send(value int64) (err error) {
	if temp.Capacity > 0 && len(temp.Data) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data = append(temp.Data, value)

	return
}
