package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull   = errors.New(f("channel full"))
	ErrChannelOutput = errors.New(f("channel has no output"))

	// Rom errors
	ErrRomLiteral = errors.New(f("not a binary byte literal"))
)

// ErrRomSyntax reports a malformed line of a program image.
type ErrRomSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrRomSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrRomSyntax) Unwrap() error {
	return err.Err
}
