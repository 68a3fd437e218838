package cpu

import (
	"fmt"
)

// AluOp is an ALU operation type.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0) // ADD
	ALU_OP_MUL = AluOp(1) // MUL
	ALU_OP_CMP = AluOp(2) // CMP
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "ADD"
	case ALU_OP_MUL:
		return "MUL"
	case ALU_OP_CMP:
		return "CMP"
	}
	return fmt.Sprintf("AluOp(%d)", int(op))
}

// Alu performs the requested ALU action on registers reg_a and reg_b.
// ADD and MUL store their result in reg_a; CMP replaces the flags.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b byte) (err error) {
	a, err := cpu.Get(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.Get(reg_b)
	if err != nil {
		return
	}

	switch op {
	case ALU_OP_ADD:
		err = cpu.Set(reg_a, cpu.mask(a+b))
	case ALU_OP_MUL:
		err = cpu.Set(reg_a, cpu.mask(a*b))
	case ALU_OP_CMP:
		cpu.Flags = compare(a, b)
	default:
		err = ErrAluOp(op)
	}

	return
}

// mask truncates a result to 8 bits in Wrap mode.
func (cpu *Cpu) mask(value int64) int64 {
	if cpu.Wrap {
		return value & 0xff
	}
	return value
}

func compare(a, b int64) Flag {
	switch {
	case a < b:
		return FLAG_LESS
	case a > b:
		return FLAG_GREATER
	}
	return FLAG_EQUAL
}
