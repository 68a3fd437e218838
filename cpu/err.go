package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("cpu halted"))
	ErrOutOfBounds     = errors.New(f("out of bounds"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrStackOverflow   = errors.New(f("stack overflow"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrChannelInvalid  = errors.New(f("channel invalid"))

	// Instruction errors
	ErrOpcodeIllegal  = errors.New(f("illegal opcode"))
	ErrAluUnsupported = errors.New(f("unsupported alu operation"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrValueRange         = errors.New(f("value out of byte range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramSize        = errors.New(f("program exceeds memory"))
)

// ErrOpcode is returned when the fetched byte has no dispatch table entry.
type ErrOpcode struct {
	Ip    int    // Address of the fetched byte.
	Code  Code   // Offending byte.
	Table []Code // Dispatch table contents.
}

func (eo *ErrOpcode) Error() string {
	names := make([]string, len(eo.Table))
	for n, code := range eo.Table {
		names[n] = f("%v=0b%08b", code.String(), byte(code))
	}
	return f("illegal opcode 0b%08b at 0x%02x, not in [%v]", byte(eo.Code), eo.Ip, strings.Join(names, " "))
}

func (eo *ErrOpcode) Is(err error) bool {
	return err == ErrOpcodeIllegal
}

// ErrAluOp is returned when the ALU is asked for an operation it lacks.
type ErrAluOp AluOp

func (ea ErrAluOp) Error() string {
	return f("unsupported alu operation %v", AluOp(ea).String())
}

func (ea ErrAluOp) Is(err error) bool {
	return err == ErrAluUnsupported
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
