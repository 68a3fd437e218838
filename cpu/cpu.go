package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is the observation channel interface.
type Channel io.Channel

const (
	MEMORY_SIZE    = 256  // Size of memory, in bytes.
	REGISTER_COUNT = 8    // Size of the register file.
	REG_SP         = 7    // Register reserved as the stack pointer.
	STACK_TOP      = 0xf4 // Initial stack pointer.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"STACK_TOP":   fmt.Sprintf("0x%x", STACK_TOP),
	"SP":          fmt.Sprintf("R%v", REG_SP),
}

// Flag is the compare flag state.
type Flag byte

// Compare flag values. Exactly one is set after a CMP.
const (
	FLAG_LESS    = Flag(0b100)
	FLAG_GREATER = Flag(0b010)
	FLAG_EQUAL   = Flag(0b001)
)

func (fl Flag) String() string {
	switch fl {
	case FLAG_LESS:
		return "L"
	case FLAG_GREATER:
		return "G"
	case FLAG_EQUAL:
		return "E"
	case 0:
		return "-"
	}
	return fmt.Sprintf("0b%03b", byte(fl))
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Wrap    bool // Set to truncate ADD and MUL results to 8 bits.

	Memory   [MEMORY_SIZE]byte      // Flat memory image.
	Register [REGISTER_COUNT]int64 // Register file. R7 is the stack pointer.
	Ip       int                    // Current instruction pointer.
	Flags    Flag                   // Compare flags, written only by CMP.
	Running  bool                   // Cleared by HLT or a fatal error.

	Output Channel // Receives PRN values.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, reset and ready to load a program.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers and flags. Flags of 0 mean no CMP has run
//   yet, so JEQ falls through and JNE jumps, unlike emulators that
//   start with EQUAL set.
// - Sets the stack pointer to STACK_TOP.
// - Rewinds the output channel.
// - Sets the CPU running from address 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Flags = 0
	cpu.Ip = 0
	cpu.Ticks = 0
	cpu.Running = true

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// Load copies a program image into memory, starting at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > len(cpu.Memory) {
		err = errors.Join(ErrProgramSize, ErrOutOfBounds)
		return
	}

	copy(cpu.Memory[:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// Read returns the byte at a memory address.
func (cpu *Cpu) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(cpu.Memory) {
		err = fmt.Errorf("%w: read 0x%x", ErrOutOfBounds, address)
		return
	}

	value = cpu.Memory[address]
	return
}

// Write stores the low 8 bits of value at a memory address.
func (cpu *Cpu) Write(address int, value int64) (err error) {
	if address < 0 || address >= len(cpu.Memory) {
		err = fmt.Errorf("%w: write 0x%x", ErrOutOfBounds, address)
		return
	}

	cpu.Memory[address] = byte(value)
	return
}

// Get returns the value of a register.
func (cpu *Cpu) Get(index byte) (value int64, err error) {
	if int(index) >= len(cpu.Register) {
		err = errors.Join(ErrRegisterInvalid, fmt.Errorf("%w: r%d", ErrOutOfBounds, index))
		return
	}

	value = cpu.Register[index]
	return
}

// Set sets the value of a register.
func (cpu *Cpu) Set(index byte, value int64) (err error) {
	if int(index) >= len(cpu.Register) {
		err = errors.Join(ErrRegisterInvalid, fmt.Errorf("%w: r%d", ErrOutOfBounds, index))
		return
	}

	cpu.Register[index] = value
	return
}

// String returns the current CPU state as a trace line.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("TRACE: %02X | %v |", cpu.Ip, cpu.Flags)

	for n := range 3 {
		addr := cpu.Ip + n
		if addr >= 0 && addr < len(cpu.Memory) {
			text += fmt.Sprintf(" %02X", cpu.Memory[addr])
		} else {
			text += " --"
		}
	}
	text += " |"

	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02X", val)
	}

	return
}

// Fetch reads the opcode at the instruction pointer, and the operand
// bytes that opcode consumes.
func (cpu *Cpu) Fetch() (code Code, a, b byte, err error) {
	var op byte
	op, err = cpu.Read(cpu.Ip)
	if err != nil {
		return
	}
	code = Code(op)

	if !code.Valid() {
		err = &ErrOpcode{Ip: cpu.Ip, Code: code, Table: Codes()}
		return
	}

	operands := [2](*byte){&a, &b}
	for n := range code.Operands() {
		*operands[n], err = cpu.Read(cpu.Ip + 1 + n)
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Any error is fatal; the CPU stops running with the instruction pointer
// left at the faulting instruction.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	defer func() {
		if err != nil {
			cpu.Running = false
		}
	}()

	if cpu.Verbose {
		log.Print(cpu.String())
	}

	code, a, b, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(code, a, b)
	return
}

// Run ticks the CPU until it halts, or an instruction fails.
func (cpu *Cpu) Run() (err error) {
	for cpu.Running {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code, a, b byte) (err error) {
	insn, ok := _dispatch[code]
	if !ok {
		err = &ErrOpcode{Ip: cpu.Ip, Code: code, Table: Codes()}
		return
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("%v 0x%02x 0x%02x: %w", code, a, b, err)
		}
	}()

	next_ip, err := insn.Handler(cpu, a, b)
	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

func (cpu *Cpu) opHlt(a, b byte) (next int, err error) {
	cpu.Running = false
	next = cpu.Ip
	return
}

func (cpu *Cpu) opLdi(a, b byte) (next int, err error) {
	err = cpu.Set(a, int64(b))
	next = cpu.Ip + 3
	return
}

func (cpu *Cpu) opPrn(a, b byte) (next int, err error) {
	val, err := cpu.Get(a)
	if err != nil {
		return
	}

	if cpu.Output == nil {
		err = ErrChannelInvalid
		return
	}

	err = cpu.Output.Send(val)
	next = cpu.Ip + 2
	return
}

func (cpu *Cpu) opAdd(a, b byte) (next int, err error) {
	err = cpu.Alu(ALU_OP_ADD, a, b)
	next = cpu.Ip + 3
	return
}

func (cpu *Cpu) opMul(a, b byte) (next int, err error) {
	err = cpu.Alu(ALU_OP_MUL, a, b)
	next = cpu.Ip + 3
	return
}

func (cpu *Cpu) opCmp(a, b byte) (next int, err error) {
	err = cpu.Alu(ALU_OP_CMP, a, b)
	next = cpu.Ip + 3
	return
}

func (cpu *Cpu) opPush(a, b byte) (next int, err error) {
	val, err := cpu.Get(a)
	if err != nil {
		return
	}

	err = cpu.Push(val)
	next = cpu.Ip + 2
	return
}

func (cpu *Cpu) opPop(a, b byte) (next int, err error) {
	if int(a) >= len(cpu.Register) {
		_, err = cpu.Get(a)
		return
	}

	val, err := cpu.Pop()
	if err != nil {
		return
	}

	err = cpu.Set(a, val)
	next = cpu.Ip + 2
	return
}

func (cpu *Cpu) opCall(a, b byte) (next int, err error) {
	target, err := cpu.Get(a)
	if err != nil {
		return
	}

	ret := cpu.Ip + 2
	if ret >= len(cpu.Memory) {
		err = fmt.Errorf("%w: return 0x%x", ErrOutOfBounds, ret)
		return
	}

	err = cpu.Push(int64(ret))
	next = int(target)
	return
}

func (cpu *Cpu) opRet(a, b byte) (next int, err error) {
	val, err := cpu.Pop()
	next = int(val)
	return
}

func (cpu *Cpu) opJmp(a, b byte) (next int, err error) {
	target, err := cpu.Get(a)
	next = int(target)
	return
}

// jumpIf jumps to the address in register a if taken, otherwise skips
// to the next instruction.
func (cpu *Cpu) jumpIf(taken bool, a byte) (next int, err error) {
	target, err := cpu.Get(a)
	if err != nil {
		return
	}

	if taken {
		next = int(target)
	} else {
		next = cpu.Ip + 2
	}
	return
}

func (cpu *Cpu) opJeq(a, b byte) (next int, err error) {
	return cpu.jumpIf(cpu.Flags&FLAG_EQUAL != 0, a)
}

func (cpu *Cpu) opJne(a, b byte) (next int, err error) {
	return cpu.jumpIf(cpu.Flags&FLAG_EQUAL == 0, a)
}
