package i8051

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/segments"
	"github.com/retroenv/ubrofdecode/internal/symbols"
)

type fakeSymbols struct {
	relocatable map[uint32]*symbols.Symbol
	external    map[uint32]*symbols.Symbol
}

func (f fakeSymbols) GetRelocatable(index uint32) (*symbols.Symbol, bool) {
	sym, ok := f.relocatable[index]
	return sym, ok
}

func (f fakeSymbols) GetExternal(index uint32) (*symbols.Symbol, bool) {
	sym, ok := f.external[index]
	return sym, ok
}

var (
	mainSymbol    = &symbols.Symbol{Index: 1, Location: symbols.PublicRelocatable, Name: "main"}
	putcharSymbol = &symbols.Symbol{Index: 2, Location: symbols.External, Name: "putchar"}
)

func newDecoder(t *testing.T) *Decoder {
	t.Helper()
	segs := segments.New()
	_, err := segs.Decode(cursor.New([]byte{0x80, 0x01, 0x21, 0x04, 'C', 'O', 'D', 'E'}))
	assert.NoError(t, err)

	syms := fakeSymbols{
		relocatable: map[uint32]*symbols.Symbol{1: mainSymbol},
		external:    map[uint32]*symbols.Symbol{2: putcharSymbol},
	}
	return New(syms, segs)
}

func TestDecodeMovImmediate(t *testing.T) {
	c := cursor.New([]byte{0x74, 0x36, 0x05})

	ins, err := newDecoder(t).Decode(c)
	assert.NoError(t, err)
	assert.True(t, c.Done())
	assert.Equal(t, Mov, ins.Mnemonic)
	assert.Equal(t, []Operand{regA, {Kind: Immediate, Value: 5}}, ins.Operands)
	assert.Equal(t, "mov A, #05h", ins.String())
}

func TestLookupOverflowToLast(t *testing.T) {
	tests := []struct {
		opcode byte
		want   *Mnemonic
	}{
		{0x00, Nop},
		{0x04, Inc},
		{0x0F, Inc},
		{0x2F, Add},
		{0x4F, Orl},
		{0x73, Jmp},
		{0x7F, Mov},
		{0x8F, Mov},
		{0x9F, Subb},
		{0xA5, Undefined},
		{0xAF, Mov},
		{0xBF, Cjne},
		{0xD7, Xchd},
		{0xDF, Djnz},
		{0xFF, Mov},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("0x%02X", tt.opcode), func(t *testing.T) {
			assert.Equal(t, tt.want, lookup(tt.opcode))
		})
	}
}

//nolint:funlen // test functions can be long
func TestDecodeOperands(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"register", []byte{0xE9}, "mov A, R1"},
		{"indirect register", []byte{0x97}, "subb A, @R1"},
		{"subb register", []byte{0x9B}, "subb A, R3"},
		{"direct to direct", []byte{0x85, 0x36, 0x10, 0x36, 0x20}, "mov 20h, 10h"},
		{"wide immediate", []byte{0x90, 0x37, 0x12, 0x34}, "mov DPTR, #1234h"},
		{"bit", []byte{0xD2, 0x36, 0xA0}, "setb A0h"},
		{"inverted bit", []byte{0xB0, 0x36, 0x20}, "anl C, /20h"},
		{"relocatable call", []byte{0x11, 0x5E, 0x01, 0x00, 0x00, 0x00, 0x00}, "acall main"},
		{"external call", []byte{0x12, 0x5D, 0x02, 0x00, 0x00, 0x00, 0x00}, "lcall putchar"},
		{"direct symbol", []byte{0xF5, 0x5E, 0x01, 0x00, 0x00, 0x00, 0x00}, "mov main, A"},
		{"bit symbol", []byte{0xD2, 0x5E, 0x01, 0x00, 0x00, 0x00, 0x00}, "setb main"},
		{"bit symbol branch", []byte{0x20, 0x5D, 0x02, 0x00, 0x00, 0x00, 0x00, 0x36, 0x04}, "jb putchar, 04h"},
		{"inverted bit symbol", []byte{0xB0, 0x5E, 0x01, 0x00, 0x00, 0x00, 0x00}, "anl C, /main"},
		{"literal offset", []byte{0x80, 0x36, 0xFE}, "sjmp FEh"},
		{"segment offset", []byte{0x80, 0x5D, 0x01, 0x00, 0x00, 0x00, 0x10}, "sjmp CODE + 16"},
		{"compare and branch", []byte{0xB7, 0x36, 0x01, 0x36, 0x04}, "cjne @R1, #01h, 04h"},
		{"no operands", []byte{0x22}, "ret"},
		{"fixed registers", []byte{0x83}, "movc A, @A+PC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursor.New(tt.data)
			ins, err := newDecoder(t).Decode(c)
			assert.NoError(t, err)
			assert.True(t, c.Done())
			assert.Equal(t, tt.want, ins.String())
		})
	}
}

func TestDecodeSymbolOperand(t *testing.T) {
	ins, err := newDecoder(t).Decode(cursor.New([]byte{0x12, 0x5D, 0x02, 0x00, 0x00, 0x00, 0x00}))
	assert.NoError(t, err)
	assert.Len(t, ins.Operands, 1)
	assert.Equal(t, Addr16, ins.Operands[0].Kind)
	assert.Equal(t, putcharSymbol, ins.Operands[0].Symbol)
	assert.False(t, ins.Operands[0].IsLiteral())
}

func TestDecodeBitSymbolOperand(t *testing.T) {
	ins, err := newDecoder(t).Decode(cursor.New([]byte{0xB0, 0x5E, 0x01, 0x00, 0x00, 0x00, 0x00}))
	assert.NoError(t, err)
	assert.Len(t, ins.Operands, 2)
	assert.Equal(t, InvertedBit, ins.Operands[1].Kind)
	assert.Equal(t, mainSymbol, ins.Operands[1].Symbol)
}

func TestDecodeSegmentOffset(t *testing.T) {
	ins, err := newDecoder(t).Decode(cursor.New([]byte{0x60, 0x5D, 0x01, 0x00, 0x00, 0x01, 0x00}))
	assert.NoError(t, err)

	operand := ins.Operands[0]
	assert.Equal(t, Offset, operand.Kind)
	assert.NotNil(t, operand.Segment)
	assert.Equal(t, "CODE", operand.Segment.Name)
	assert.Equal(t, uint32(0x100), operand.Displacement)
}

func TestDecodeWithoutOperandShape(t *testing.T) {
	ins, err := newDecoder(t).Decode(cursor.New([]byte{0xA5}))
	assert.NoError(t, err)
	assert.Equal(t, Undefined, ins.Mnemonic)
	assert.Nil(t, ins.Operands)

	operands, err := movOperands(newDecoder(t), cursor.New(nil), 0x00)
	assert.NoError(t, err)
	assert.Nil(t, operands)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		target error
	}{
		{"truncated literal", []byte{0x74, 0x36}, decodeerr.ErrOverrun},
		{"missing operand", []byte{0x74}, decodeerr.ErrOverrun},
		{"unknown operand marker", []byte{0x74, 0x40}, decodeerr.ErrLookup},
		{"unresolved call target", []byte{0x12, 0x5D, 0x09, 0x00, 0x00, 0x00, 0x00}, decodeerr.ErrLookup},
		{"unresolved bit symbol", []byte{0xD2, 0x5E, 0x09, 0x00, 0x00, 0x00, 0x00}, decodeerr.ErrLookup},
		{"truncated wide literal", []byte{0x90, 0x37, 0x12}, decodeerr.ErrOverrun},
		{"unregistered offset segment", []byte{0x80, 0x5E, 0x07, 0x00, 0x00, 0x00, 0x00}, decodeerr.ErrLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDecoder(t).Decode(cursor.New(tt.data))
			assert.True(t, errors.Is(err, tt.target))
		})
	}
}

func TestDecodeAll(t *testing.T) {
	c := cursor.New([]byte{0x00, 0x22, 0xE4, 0xFF})
	body, err := c.Sub(3)
	assert.NoError(t, err)

	instructions, err := newDecoder(t).DecodeAll(body)
	assert.NoError(t, err)
	assert.Len(t, instructions, 3)
	assert.Equal(t, Nop, instructions[0].Mnemonic)
	assert.Equal(t, Ret, instructions[1].Mnemonic)
	assert.Equal(t, "clr A", instructions[2].String())
	assert.Equal(t, 2, instructions[2].Offset)
	assert.Equal(t, 1, c.Remaining())
}
