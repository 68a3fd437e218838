package cpu

import (
	"errors"
	"slices"
	"testing"

	"github.com/ezrec/ls8/io"
	"github.com/stretchr/testify/assert"
)

// runImage loads and runs a program image, returning the CPU and the values printed.
func runImage(t *testing.T, image []byte) (cpu *Cpu, output []int64, err error) {
	cpu = NewCpu()
	temp := &io.Temporary{}
	cpu.Output = temp

	err = cpu.Load(image)
	assert.NoError(t, err)

	err = cpu.Run()
	output = slices.Collect(temp.Receive())
	return
}

func b(codes ...any) (image []byte) {
	for _, code := range codes {
		switch v := code.(type) {
		case Code:
			image = append(image, byte(v))
		case int:
			image = append(image, byte(v))
		}
	}
	return
}

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.True(cpu.Running)
	assert.Equal(0, cpu.Ip)
	assert.Equal(Flag(0), cpu.Flags)
	assert.Equal(int64(STACK_TOP), cpu.Register[REG_SP])
	for n := range REG_SP {
		assert.Equal(int64(0), cpu.Register[n])
	}
	for _, val := range cpu.Memory {
		assert.Equal(byte(0), val)
	}

	// No CMP yet: JEQ falls through to the HLT at 5, it does not jump to 6.
	cpu, _, err := runImage(t, b(OP_LDI, 0, 6, OP_JEQ, 0, OP_HLT, OP_HLT))
	assert.NoError(err)
	assert.Equal(5, cpu.Ip)

	// JNE is taken.
	cpu, _, err = runImage(t, b(OP_LDI, 0, 6, OP_JNE, 0, OP_HLT, OP_HLT))
	assert.NoError(err)
	assert.Equal(6, cpu.Ip)
}

func TestLdiHlt(t *testing.T) {
	assert := assert.New(t)

	for reg := range REGISTER_COUNT {
		for _, val := range []int{0, 1, 42, 0x80, 0xff} {
			cpu, output, err := runImage(t, b(OP_LDI, reg, val, OP_HLT))
			assert.NoError(err)
			assert.False(cpu.Running)
			assert.Equal(int64(val), cpu.Register[reg])
			assert.Equal(3, cpu.Ip)
			assert.Empty(output)
		}
	}
}

func TestEndToEnd(t *testing.T) {
	assert := assert.New(t)

	image := []byte{0b10000010, 0, 8, 0b10000010, 1, 9, 0b10100000, 0, 1, 0b01000111, 0, 0b00000001}

	cpu, output, err := runImage(t, image)
	assert.NoError(err)
	assert.Equal([]int64{17}, output)
	assert.False(cpu.Running)
	assert.Equal(5, cpu.Ticks)
}

func TestAddMul(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		op   Code
		a, b int
		wide int64
		wrap int64
	}){
		{"add", OP_ADD, 8, 9, 17, 17},
		{"add_carry", OP_ADD, 200, 100, 300, 44},
		{"mul", OP_MUL, 6, 7, 42, 42},
		{"mul_carry", OP_MUL, 200, 2, 400, 144},
		{"mul_zero", OP_MUL, 0, 255, 0, 0},
	}

	for _, entry := range table {
		image := b(OP_LDI, 0, entry.a, OP_LDI, 1, entry.b, entry.op, 0, 1, OP_PRN, 0, OP_HLT)

		_, output, err := runImage(t, image)
		assert.NoError(err, entry.name)
		assert.Equal([]int64{entry.wide}, output, entry.name)

		cpu := NewCpu()
		cpu.Wrap = true
		temp := &io.Temporary{}
		cpu.Output = temp
		assert.NoError(cpu.Load(image))
		assert.NoError(cpu.Run(), entry.name)
		assert.Equal([]int64{entry.wrap}, slices.Collect(temp.Receive()), entry.name)
	}
}

func TestCmpBranch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		a, b int
		flag Flag
	}){
		{"less", 3, 5, FLAG_LESS},
		{"greater", 5, 3, FLAG_GREATER},
		{"equal", 4, 4, FLAG_EQUAL},
	}

	for _, entry := range table {
		for _, jump := range []Code{OP_JEQ, OP_JNE} {
			// 0: LDI r0,a  3: LDI r1,b  6: LDI r2,taken  9: CMP r0,r1
			// 12: Jxx r2  14: LDI r3,1  17: PRN r3  19: HLT
			// 20 (taken): LDI r3,2  23: PRN r3  25: HLT
			image := b(
				OP_LDI, 0, entry.a,
				OP_LDI, 1, entry.b,
				OP_LDI, 2, 20,
				OP_CMP, 0, 1,
				jump, 2,
				OP_LDI, 3, 1,
				OP_PRN, 3,
				OP_HLT,
				OP_LDI, 3, 2,
				OP_PRN, 3,
				OP_HLT,
			)

			cpu, output, err := runImage(t, image)
			assert.NoError(err, entry.name)
			assert.Equal(entry.flag, cpu.Flags, entry.name)

			taken := (entry.flag == FLAG_EQUAL) == (jump == OP_JEQ)
			if taken {
				assert.Equal([]int64{2}, output, entry.name+" "+jump.String())
			} else {
				assert.Equal([]int64{1}, output, entry.name+" "+jump.String())
			}
		}
	}
}

func TestCmpOverwritesFlags(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 1
	cpu.Register[1] = 2

	assert.NoError(cpu.Alu(ALU_OP_CMP, 0, 1))
	assert.Equal(FLAG_LESS, cpu.Flags)
	assert.NoError(cpu.Alu(ALU_OP_CMP, 1, 0))
	assert.Equal(FLAG_GREATER, cpu.Flags)
	assert.NoError(cpu.Alu(ALU_OP_CMP, 1, 1))
	assert.Equal(FLAG_EQUAL, cpu.Flags)
}

func TestJmp(t *testing.T) {
	assert := assert.New(t)

	// 0: LDI r0,7  3: JMP r0  5: PRN r0  7: HLT
	cpu, output, err := runImage(t, b(OP_LDI, 0, 7, OP_JMP, 0, OP_PRN, 0, OP_HLT))
	assert.NoError(err)
	assert.Empty(output)
	assert.Equal(7, cpu.Ip)
}

func TestIllegalOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu, output, err := runImage(t, b(OP_LDI, 0, 1, 0b11111111, OP_PRN, 0, OP_HLT))
	assert.Error(err)
	assert.True(errors.Is(err, ErrOpcodeIllegal))
	assert.Empty(output)
	assert.False(cpu.Running)
	assert.Equal(3, cpu.Ip)
	assert.Equal(1, cpu.Ticks)

	var eo *ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(Code(0b11111111), eo.Code)
	assert.Equal(3, eo.Ip)
	assert.Equal(Codes(), eo.Table)
	assert.Contains(err.Error(), "0b11111111")
	assert.Contains(err.Error(), "HLT=0b00000001")

	// No further instructions once stopped.
	assert.ErrorIs(cpu.Tick(), ErrHalted)
}

func TestZeroMemoryIsIllegal(t *testing.T) {
	assert := assert.New(t)

	_, _, err := runImage(t, nil)
	assert.ErrorIs(err, ErrOpcodeIllegal)
}

func TestFetchBoundary(t *testing.T) {
	assert := assert.New(t)

	// HLT in the last byte needs no operands.
	cpu := NewCpu()
	cpu.Memory[MEMORY_SIZE-1] = byte(OP_HLT)
	cpu.Ip = MEMORY_SIZE - 1
	assert.NoError(cpu.Run())
	assert.False(cpu.Running)

	// PRN in the last byte has its operand past the end of memory.
	cpu = NewCpu()
	cpu.Output = &io.Temporary{}
	cpu.Memory[MEMORY_SIZE-1] = byte(OP_PRN)
	cpu.Ip = MEMORY_SIZE - 1
	assert.ErrorIs(cpu.Run(), ErrOutOfBounds)

	// LDI with a single byte of room.
	cpu = NewCpu()
	cpu.Memory[MEMORY_SIZE-2] = byte(OP_LDI)
	cpu.Ip = MEMORY_SIZE - 2
	assert.ErrorIs(cpu.Run(), ErrOutOfBounds)

	// Jumping off the end of memory.
	cpu = NewCpu()
	cpu.Register[0] = MEMORY_SIZE
	assert.NoError(cpu.Load(b(OP_JMP, 0)))
	assert.ErrorIs(cpu.Run(), ErrOutOfBounds)
	assert.Equal(MEMORY_SIZE, cpu.Ip)
}

func TestRegisterInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, image := range [][]byte{
		b(OP_LDI, 8, 1, OP_HLT),
		b(OP_PRN, 9, OP_HLT),
		b(OP_ADD, 0, 8, OP_HLT),
		b(OP_POP, 8, OP_HLT),
		b(OP_JMP, 0xff),
	} {
		cpu, _, err := runImage(t, image)
		assert.ErrorIs(err, ErrRegisterInvalid)
		assert.ErrorIs(err, ErrOutOfBounds)
		assert.Equal(0, cpu.Ip)
		assert.Equal(int64(STACK_TOP), cpu.Register[REG_SP])
	}
}

func TestPrnNoChannel(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load(b(OP_PRN, 0, OP_HLT)))
	assert.ErrorIs(cpu.Run(), ErrChannelInvalid)
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Write(0x10, 0x1ab))
	val, err := cpu.Read(0x10)
	assert.NoError(err)
	assert.Equal(byte(0xab), val)

	_, err = cpu.Read(MEMORY_SIZE)
	assert.ErrorIs(err, ErrOutOfBounds)
	_, err = cpu.Read(-1)
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.ErrorIs(cpu.Write(MEMORY_SIZE, 1), ErrOutOfBounds)

	assert.NoError(cpu.Load(make([]byte, MEMORY_SIZE)))
	assert.ErrorIs(cpu.Load(make([]byte, MEMORY_SIZE+1)), ErrOutOfBounds)
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Set(3, 1<<40))
	val, err := cpu.Get(3)
	assert.NoError(err)
	assert.Equal(int64(1<<40), val)

	_, err = cpu.Get(REGISTER_COUNT)
	assert.ErrorIs(err, ErrRegisterInvalid)
	assert.ErrorIs(cpu.Set(REGISTER_COUNT, 0), ErrRegisterInvalid)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	temp := &io.Temporary{}
	cpu, _, err := runImage(t, b(OP_LDI, 0, 9, OP_PRN, 0, OP_HLT))
	assert.NoError(err)
	cpu.Output = temp
	temp.Send(5)

	cpu.Reset()
	assert.True(cpu.Running)
	assert.Equal(0, cpu.Ip)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(int64(0), cpu.Register[0])
	assert.Equal(byte(0), cpu.Memory[0])
	assert.Empty(temp.Data)
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load(b(OP_LDI, 0, 8)))
	assert.Equal("TRACE: 00 | - | 82 00 08 | 00 00 00 00 00 00 00 F4", cpu.String())

	cpu.Ip = MEMORY_SIZE - 1
	cpu.Flags = FLAG_EQUAL
	assert.Equal("TRACE: FF | E | 00 -- -- | 00 00 00 00 00 00 00 F4", cpu.String())
}

func TestCodes(t *testing.T) {
	assert := assert.New(t)

	codes := Codes()
	assert.Len(codes, 13)
	assert.True(slices.IsSorted(codes))

	for _, code := range codes {
		assert.True(code.Valid())
		// Operand count is mirrored in the top two bits.
		assert.Equal(int(code>>6), code.Operands(), code.String())
		found, ok := CodeOf(code.String())
		assert.True(ok)
		assert.Equal(code, found)
	}

	assert.False(Code(0).Valid())
	assert.Equal(0, Code(0).Width())
	assert.Equal("0b11111111", Code(0xff).String())

	_, ok := CodeOf("NOP")
	assert.False(ok)
}
