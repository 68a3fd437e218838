package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Rom is a program image: the bytes loaded into memory from address 0.
//
// Its text form has one byte per line, written as a base-2 literal.
// Anything after a '#' is a comment, and blank lines are ignored.
type Rom struct {
	Data []byte
}

// Load replaces the image with the one parsed from a text stream.
func (rom *Rom) Load(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	var data []byte
	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		line, _, _ := strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(strings.TrimPrefix(line, "0b"), 2, 8)
		if err != nil {
			err = &ErrRomSyntax{LineNo: lineno, Line: text, Err: errors.Join(ErrRomLiteral, err)}
			return
		}

		data = append(data, byte(value))
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	rom.Data = data

	return
}

// Store writes the image in its text form.
func (rom *Rom) Store(output io.Writer) (err error) {
	wr := bufio.NewWriter(output)

	for _, value := range rom.Data {
		_, err = fmt.Fprintf(wr, "%08b\n", value)
		if err != nil {
			return
		}
	}

	err = wr.Flush()

	return
}
