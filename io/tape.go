package io

import (
	"fmt"
	"io"
)

// Tape writes each value it receives to an io.Writer, as a decimal
// number on its own line.
type Tape struct {
	Output io.Writer

	Lines int // Values written since the last rewind.
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape; only the line count is reset.
func (tc *Tape) Rewind() {
	tc.Lines = 0
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		err = ErrChannelOutput
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Lines++

	return
}
