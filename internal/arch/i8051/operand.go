package i8051

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/segments"
	"github.com/retroenv/ubrofdecode/internal/symbols"
)

// OperandKind is the addressing form of an operand.
type OperandKind uint8

// Operand kinds.
const (
	Register OperandKind = iota
	IndirectRegister
	Direct
	Immediate
	Bit
	InvertedBit
	Addr11
	Addr16
	Offset
)

var operandKindNames = map[OperandKind]string{
	Register:         "register",
	IndirectRegister: "indirect register",
	Direct:           "direct",
	Immediate:        "immediate",
	Bit:              "bit",
	InvertedBit:      "inverted bit",
	Addr11:           "addr11",
	Addr16:           "addr16",
	Offset:           "offset",
}

func (k OperandKind) String() string {
	return operandKindNames[k]
}

// Operand is a decoded instruction operand. Register operands carry their name
// and number, value operands either a literal Value, a Symbol or a Segment with
// a displacement.
type Operand struct {
	Kind OperandKind
	Name string // register name

	Value        uint32 // register number or literal value
	Symbol       *symbols.Symbol
	Segment      *segments.Segment
	Displacement uint32
}

// IsLiteral returns whether a value operand holds a literal.
func (o Operand) IsLiteral() bool {
	return o.Symbol == nil && o.Segment == nil
}

func (o Operand) String() string {
	switch {
	case o.Kind == Register || o.Kind == IndirectRegister:
		return o.Name
	case o.Symbol != nil && o.Kind == InvertedBit:
		return "/" + o.Symbol.Name
	case o.Symbol != nil:
		return o.Symbol.Name
	case o.Segment != nil:
		return fmt.Sprintf("%s + %d", o.Segment.Name, o.Displacement)
	case o.Kind == Immediate:
		return fmt.Sprintf("#%02Xh", o.Value)
	case o.Kind == InvertedBit:
		return fmt.Sprintf("/%02Xh", o.Value)
	default:
		return fmt.Sprintf("%02Xh", o.Value)
	}
}

// fixed register operands
var (
	regA    = Operand{Kind: Register, Name: "A"}
	regC    = Operand{Kind: Register, Name: "C"}
	regAB   = Operand{Kind: Register, Name: "AB"}
	regDPTR = Operand{Kind: Register, Name: "DPTR"}

	atDPTR   = Operand{Kind: IndirectRegister, Name: "@DPTR"}
	atAPlusD = Operand{Kind: IndirectRegister, Name: "@A+DPTR"}
	atAPlusP = Operand{Kind: IndirectRegister, Name: "@A+PC"}
)

// register returns the Rn operand selected by the low 3 bits of the opcode.
func register(op byte) Operand {
	n := op & 0x07
	return Operand{Kind: Register, Name: fmt.Sprintf("R%d", n), Value: uint32(n)}
}

// indirect returns the @Ri operand selected by the lowest bit of the opcode.
func indirect(op byte) Operand {
	n := op & 0x01
	return Operand{Kind: IndirectRegister, Name: fmt.Sprintf("@R%d", n), Value: uint32(n)}
}
