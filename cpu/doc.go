// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of 256 bytes of memory, an instruction pointer, eight
// registers (r0-r7, with r7 the stack pointer), a compare flags register,
// and an ALU. Instructions are an opcode byte followed by up to two
// operand bytes, dispatched through a fixed table. The stack lives in
// memory below the stack pointer, and is shared by PUSH/POP and CALL/RET.
//
// The assembler translates LS-8 mnemonics to a program image, supporting
// macros, labels, equates, and compile-time expression evaluation.
package cpu
