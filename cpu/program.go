package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int
	Ip        int
	Words     []string
	Bytes     []byte
	LinkLabel string
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode covering a memory address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode and byte index for a memory address.
// The Opcode is nil when no opcode covers the address.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  ip - op.Ip,
			}
			break
		}
	}

	return
}

// Size returns the number of bytes from address 0 to the end of the program.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size = max(size, op.Ip+len(op.Bytes))
	}

	return
}

// Binary returns the program image.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, prog.Size())
	for ip, value := range prog.Bytes() {
		bins[ip] = value
	}

	return
}

// Bytes iterates over the address and value of every assembled byte.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(ip int, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Ip+n, value) {
					return
				}
			}
		}
	}
}
