package callframe

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

// Compressed offset opcodes carry the column in the opcode byte.
const (
	offsetBase = 0x80
	offsetLast = 0xBF
)

// InstructionKind is the variant of a call frame instruction.
type InstructionKind uint8

// Decoded call frame instruction variants.
const (
	Offset InstructionKind = iota
	Undefined
	SameValue
	DefaultFrameAddress
	VendorFrameAddress       // vendor default frame address with a leading reserved byte
	VendorFrameStaticOverlay // vendor default frame address in a static overlay frame
)

var instructionKindNames = map[InstructionKind]string{
	Offset:                   "offset",
	Undefined:                "undefined",
	SameValue:                "same value",
	DefaultFrameAddress:      "default frame address",
	VendorFrameAddress:       "vendor default frame address",
	VendorFrameStaticOverlay: "vendor static overlay frame address",
}

func (k InstructionKind) String() string {
	return instructionKindNames[k]
}

// Exact opcodes of the decoded variants.
const (
	opUndefined                = 0x07
	opSameValue                = 0x08
	opDefaultFrameAddress      = 0x0C
	opVendorFrameAddress       = 0x1C
	opVendorFrameStaticOverlay = 0x1F
)

// unimplementedOpcodes are known opcodes that are not decoded.
var unimplementedOpcodes = map[byte]string{
	0x01: "set location",
	0x02: "advance location 1",
	0x03: "advance location 2",
	0x04: "advance location 4",
	0x05: "offset extended",
	0x06: "remote extended",
	0x09: "register",
	0x0A: "remember state",
	0x0B: "restore state",
	0x0D: "default frame address register",
	0x0E: "default frame address offset",
	0x0F: "default frame address expression",
	0x10: "expression",
	0x11: "offset extended sf",
	0x12: "default frame address sf",
	0x13: "default frame address offset sf",
	0x14: "value offset",
	0x15: "value offset 2",
	0x16: "value expression",
	0x1D: "vendor default frame address register",
	0x1E: "vendor default frame address instruction offset",
	0x20: "vendor offset instruction extended",
	0x21: "vendor valid",
	0x22: "vendor invalid",
	0x23: "vendor default frame address expression",
	0x24: "vendor expression",
	0x25: "vendor default frame address instruction not used",
}

// Instruction is a decoded call frame instruction. Which fields are set
// depends on Kind.
type Instruction struct {
	Opcode   byte
	Kind     InstructionKind
	Column   uint8
	Offset   uint8
	Reserved uint8
	Frame    uint8
}

func (i Instruction) String() string {
	switch i.Kind {
	case Offset, DefaultFrameAddress, VendorFrameAddress:
		return fmt.Sprintf("%s column %d offset %d", i.Kind, i.Column, i.Offset)
	case VendorFrameStaticOverlay:
		return fmt.Sprintf("%s frame %d", i.Kind, i.Frame)
	default:
		return fmt.Sprintf("%s column %d", i.Kind, i.Column)
	}
}

// DecodeInstruction reads one call frame instruction.
func DecodeInstruction(c *cursor.Cursor) (Instruction, error) {
	start := c.Offset()
	opcode, err := c.U8()
	if err != nil {
		return Instruction{}, err
	}
	ins := Instruction{Opcode: opcode}

	switch {
	case opcode > offsetBase && opcode <= offsetLast:
		ins.Kind = Offset
		ins.Column = opcode - offsetBase
		ins.Offset, err = c.U8()

	case opcode == opUndefined, opcode == opSameValue:
		ins.Kind = Undefined
		if opcode == opSameValue {
			ins.Kind = SameValue
		}
		ins.Column, err = c.U8()

	case opcode == opDefaultFrameAddress:
		ins.Kind = DefaultFrameAddress
		if ins.Column, err = c.U8(); err != nil {
			return Instruction{}, err
		}
		ins.Offset, err = c.U8()

	case opcode == opVendorFrameAddress:
		ins.Kind = VendorFrameAddress
		if ins.Reserved, err = c.U8(); err != nil {
			return Instruction{}, err
		}
		if ins.Column, err = c.U8(); err != nil {
			return Instruction{}, err
		}
		ins.Offset, err = c.U8()

	case opcode == opVendorFrameStaticOverlay:
		ins.Kind = VendorFrameStaticOverlay
		ins.Frame, err = c.U8()

	default:
		if name, ok := unimplementedOpcodes[opcode]; ok {
			return Instruction{}, decodeerr.Unimplemented(start, opcode, "call frame instruction "+name)
		}
		return Instruction{}, decodeerr.FormatTag(start, opcode, decodeerr.ErrUnknownOpcode, "call frame instruction")
	}

	if err != nil {
		return Instruction{}, err
	}
	return ins, nil
}
