// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	ls8io "github.com/ezrec/ls8/io"
)

var _emulator_defines = map[string]string{
	"FLAG_LESS":    fmt.Sprintf("%#b", byte(cpu.FLAG_LESS)),
	"FLAG_GREATER": fmt.Sprintf("%#b", byte(cpu.FLAG_GREATER)),
	"FLAG_EQUAL":   fmt.Sprintf("%#b", byte(cpu.FLAG_EQUAL)),
}

// Emulator state. CPU + program image + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Rom  ls8io.Rom  // Program image loaded at reset.
	Tape ls8io.Tape // PRN output.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles LS-8 source into the program listing and image.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Rom.Data = prog.Binary()

	return
}

// Load loads a binary-literal program image. There is no listing.
func (emu *Emulator) Load(input io.Reader) (err error) {
	err = emu.Rom.Load(input)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{}

	return
}

// Reset the emulator, and load the program image into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Rom.Data)

	return
}

// LineNo returns the current line number for the executing opcode,
// or 0 if there is no listing for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// Returns done once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running {
		done = true
		return
	}

	ip := emu.Cpu.Ip
	lineno := emu.LineNo()

	err = emu.Cpu.Tick()
	if err != nil {
		err = &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
		return
	}

	done = !emu.Cpu.Running

	return
}

// Run ticks the emulator until the CPU halts, or an error occurs.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
