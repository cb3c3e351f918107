package i8051

import (
	"fmt"
	"strings"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/segments"
	"github.com/retroenv/ubrofdecode/internal/symbols"
)

// Operand record markers.
const (
	literal8Marker    = 0x36
	literal16Marker   = 0x37
	externalMarker    = 0x5D
	relocatableMarker = 0x5E
)

// SymbolResolver resolves symbol references of operands.
type SymbolResolver interface {
	GetRelocatable(index uint32) (*symbols.Symbol, bool)
	GetExternal(index uint32) (*symbols.Symbol, bool)
}

// SegmentResolver resolves segment references of relative offsets.
type SegmentResolver interface {
	Get(index uint8) (*segments.Segment, bool)
}

var (
	_ SymbolResolver  = (*symbols.Table)(nil)
	_ SegmentResolver = (*segments.Table)(nil)
)

// Instruction is a decoded 8051 instruction.
type Instruction struct {
	Offset   int // absolute offset of the opcode byte
	Opcode   byte
	Mnemonic *Mnemonic
	Operands []Operand // nil if the operand shape of the opcode is not known
}

func (i *Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Mnemonic.Name
	}
	params := make([]string, len(i.Operands))
	for j, op := range i.Operands {
		params[j] = op.String()
	}
	return i.Mnemonic.Name + " " + strings.Join(params, ", ")
}

// Decoder decodes instructions and resolves their operands.
type Decoder struct {
	symbols  SymbolResolver
	segments SegmentResolver
}

// New returns a decoder resolving operands through the passed tables.
func New(syms SymbolResolver, segs SegmentResolver) *Decoder {
	return &Decoder{
		symbols:  syms,
		segments: segs,
	}
}

// Decode decodes one instruction.
func (d *Decoder) Decode(c *cursor.Cursor) (*Instruction, error) {
	start := c.Offset()
	opcode, err := c.U8()
	if err != nil {
		return nil, err
	}

	mnemonic := lookup(opcode)
	ins := &Instruction{
		Offset:   start,
		Opcode:   opcode,
		Mnemonic: mnemonic,
	}
	if mnemonic.operands == nil {
		return ins, nil
	}
	if ins.Operands, err = mnemonic.operands(d, c, opcode); err != nil {
		return nil, fmt.Errorf("decoding %s opcode 0x%02X at offset 0x%X: %w", mnemonic.Name, opcode, start, err)
	}
	return ins, nil
}

// lookup returns the mnemonic of an opcode.
func lookup(opcode byte) *Mnemonic {
	row := opcodeRows[opcode>>4]
	col := int(opcode & 0x0F)
	if col >= len(row) {
		col = len(row) - 1
	}
	return row[col]
}

// DecodeAll decodes instructions until the cursor is exhausted.
func (d *Decoder) DecodeAll(c *cursor.Cursor) ([]*Instruction, error) {
	var instructions []*Instruction
	for !c.Done() {
		ins, err := d.Decode(c)
		if err != nil {
			return instructions, err
		}
		instructions = append(instructions, ins)
	}
	return instructions, nil
}

// literal reads a literal record if the next byte is a literal marker.
func (d *Decoder) literal(c *cursor.Cursor, kind OperandKind) (Operand, bool, error) {
	marker, err := c.PeekU8()
	if err != nil {
		return Operand{}, false, err
	}

	var value uint32
	switch marker {
	case literal8Marker:
		if err = c.Skip(1); err != nil {
			return Operand{}, false, err
		}
		var b uint8
		b, err = c.U8()
		value = uint32(b)
	case literal16Marker:
		if err = c.Skip(1); err != nil {
			return Operand{}, false, err
		}
		var w uint16
		w, err = c.U16()
		value = uint32(w)
	default:
		return Operand{}, false, nil
	}
	if err != nil {
		return Operand{}, false, err
	}
	return Operand{Kind: kind, Value: value}, true, nil
}

// symbol reads a symbol reference record if the next byte is a symbol marker
// and the referenced symbol is registered. Nothing is consumed otherwise.
func (d *Decoder) symbol(c *cursor.Cursor, kind OperandKind) (Operand, bool, error) {
	marker, err := c.PeekU8()
	if err != nil {
		return Operand{}, false, err
	}
	if marker != relocatableMarker && marker != externalMarker {
		return Operand{}, false, nil
	}

	index, err := c.PeekDynamicAt(1)
	if err != nil {
		return Operand{}, false, err
	}
	var sym *symbols.Symbol
	var ok bool
	if marker == relocatableMarker {
		sym, ok = d.symbols.GetRelocatable(index)
	} else {
		sym, ok = d.symbols.GetExternal(index)
	}
	if !ok {
		return Operand{}, false, nil
	}

	if err := skipReference(c); err != nil {
		return Operand{}, false, err
	}
	return Operand{Kind: kind, Symbol: sym}, true, nil
}

// skipReference consumes a marker byte, a dynamic index and 4 reserved bytes.
func skipReference(c *cursor.Cursor) error {
	if err := c.Skip(1); err != nil {
		return err
	}
	if _, err := c.Dynamic(); err != nil {
		return err
	}
	return c.Skip(4)
}

// value reads a literal or a symbol reference. Direct, immediate and bit
// operands share this grammar.
func (d *Decoder) value(c *cursor.Cursor, kind OperandKind) (Operand, error) {
	start := c.Offset()
	if operand, ok, err := d.literal(c, kind); ok || err != nil {
		return operand, err
	}
	if operand, ok, err := d.symbol(c, kind); ok || err != nil {
		return operand, err
	}
	return Operand{}, d.missing(c, start, kind)
}

// address reads a code address, which is always a symbol reference.
func (d *Decoder) address(c *cursor.Cursor, kind OperandKind) (Operand, error) {
	start := c.Offset()
	if operand, ok, err := d.symbol(c, kind); ok || err != nil {
		return operand, err
	}
	return Operand{}, d.missing(c, start, kind)
}

// relative reads a literal, a symbol reference or a segment relative offset.
func (d *Decoder) relative(c *cursor.Cursor) (Operand, error) {
	if operand, ok, err := d.literal(c, Offset); ok || err != nil {
		return operand, err
	}
	if operand, ok, err := d.symbol(c, Offset); ok || err != nil {
		return operand, err
	}

	if err := c.Skip(1); err != nil {
		return Operand{}, err
	}
	start := c.Offset()
	index, err := c.Dynamic()
	if err != nil {
		return Operand{}, err
	}
	var seg *segments.Segment
	ok := index <= 0xFF
	if ok {
		seg, ok = d.segments.Get(uint8(index))
	}
	if !ok {
		return Operand{}, decodeerr.Format(start, decodeerr.ErrLookup, "offset segment %d", index)
	}

	displacement, err := c.U32()
	if err != nil {
		return Operand{}, err
	}
	return Operand{Kind: Offset, Segment: seg, Displacement: displacement}, nil
}

func (d *Decoder) missing(c *cursor.Cursor, start int, kind OperandKind) error {
	marker, _ := c.PeekU8()
	return decodeerr.FormatTag(start, marker, decodeerr.ErrLookup, "no matching %s operand form", kind)
}
