package cpu

import (
	"fmt"
)

// Push decrements the stack pointer, then writes value at the new top.
// The stack shares memory with the program; only the bottom of memory
// is guarded. Memory cells are bytes, so a value outside 0..255 is
// refused rather than truncated.
func (cpu *Cpu) Push(value int64) (err error) {
	if value < 0 || value > 0xff {
		err = fmt.Errorf("%w: push %d", ErrValueRange, value)
		return
	}

	sp := cpu.Register[REG_SP]
	if sp <= 0 {
		err = ErrStackOverflow
		return
	}

	sp--
	err = cpu.Write(int(sp), value)
	if err != nil {
		return
	}
	cpu.Register[REG_SP] = sp

	return
}

// Pop reads the value at the top of the stack, then increments the
// stack pointer.
func (cpu *Cpu) Pop() (value int64, err error) {
	sp := cpu.Register[REG_SP]
	if sp < 0 || sp >= MEMORY_SIZE {
		err = ErrStackUnderflow
		return
	}

	val, err := cpu.Read(int(sp))
	if err != nil {
		return
	}
	cpu.Register[REG_SP] = sp + 1
	value = int64(val)

	return
}

// Peek returns the value at the top of the stack, if any.
func (cpu *Cpu) Peek() (value int64, ok bool) {
	sp := cpu.Register[REG_SP]
	if sp < 0 || sp >= MEMORY_SIZE {
		return
	}

	return int64(cpu.Memory[sp]), true
}
