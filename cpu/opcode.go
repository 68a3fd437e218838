package cpu

import (
	"fmt"
	"maps"
	"slices"
)

// Code is an LS-8 instruction opcode byte.
type Code byte

// Opcodes of the LS-8 instruction set.
//
// The upper two bits of each opcode hold its operand count, but the
// dispatch table below is the authority for instruction width.
const (
	OP_HLT  = Code(0b00000001) // HLT
	OP_LDI  = Code(0b10000010) // LDI
	OP_PRN  = Code(0b01000111) // PRN
	OP_ADD  = Code(0b10100000) // ADD
	OP_MUL  = Code(0b10100010) // MUL
	OP_PUSH = Code(0b01000101) // PUSH
	OP_POP  = Code(0b01000110) // POP
	OP_CALL = Code(0b01010000) // CALL
	OP_RET  = Code(0b00010001) // RET
	OP_CMP  = Code(0b10100111) // CMP
	OP_JMP  = Code(0b01010100) // JMP
	OP_JEQ  = Code(0b01010101) // JEQ
	OP_JNE  = Code(0b01010110) // JNE
)

var _code_name = map[Code]string{
	OP_HLT:  "HLT",
	OP_LDI:  "LDI",
	OP_PRN:  "PRN",
	OP_ADD:  "ADD",
	OP_MUL:  "MUL",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_CALL: "CALL",
	OP_RET:  "RET",
	OP_CMP:  "CMP",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
}

// handler executes an instruction with its operand bytes, and returns
// the instruction pointer of the next instruction.
type handler func(cpu *Cpu, a, b byte) (next int, err error)

// instruction is a dispatch table entry.
type instruction struct {
	Width   int // Opcode plus operand bytes.
	Handler handler
}

var _dispatch = map[Code]instruction{
	OP_HLT:  {1, (*Cpu).opHlt},
	OP_LDI:  {3, (*Cpu).opLdi},
	OP_PRN:  {2, (*Cpu).opPrn},
	OP_ADD:  {3, (*Cpu).opAdd},
	OP_MUL:  {3, (*Cpu).opMul},
	OP_PUSH: {2, (*Cpu).opPush},
	OP_POP:  {2, (*Cpu).opPop},
	OP_CALL: {2, (*Cpu).opCall},
	OP_RET:  {1, (*Cpu).opRet},
	OP_CMP:  {3, (*Cpu).opCmp},
	OP_JMP:  {2, (*Cpu).opJmp},
	OP_JEQ:  {2, (*Cpu).opJeq},
	OP_JNE:  {2, (*Cpu).opJne},
}

// Codes returns all opcodes in the dispatch table, in ascending order.
func Codes() []Code {
	return slices.Sorted(maps.Keys(_dispatch))
}

// CodeOf returns the opcode for a mnemonic.
func CodeOf(name string) (code Code, ok bool) {
	for code, n := range _code_name {
		if n == name {
			return code, true
		}
	}
	return
}

// Valid returns true if the opcode is in the dispatch table.
func (code Code) Valid() bool {
	_, ok := _dispatch[code]
	return ok
}

// Width returns the instruction width in bytes, or 0 for an illegal opcode.
func (code Code) Width() int {
	return _dispatch[code].Width
}

// Operands returns the number of operand bytes the instruction consumes.
func (code Code) Operands() int {
	width := code.Width()
	if width == 0 {
		return 0
	}
	return width - 1
}

// String returns the mnemonic of the opcode.
func (code Code) String() string {
	name, ok := _code_name[code]
	if !ok {
		return fmt.Sprintf("0b%08b", byte(code))
	}
	return name
}
