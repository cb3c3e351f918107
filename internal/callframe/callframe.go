// Package callframe implements the call frame descriptor table of an archive.
//
// A descriptor is one of three kinds: a register layout that names the columns
// of the unwind table, a common info template with its list of call frame
// instructions, or an opaque data record. Descriptors are keyed by their index
// and templates reference a layout by that index.
package callframe

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/registry"
	"github.com/retroenv/ubrofdecode/internal/segments"
)

// Kind is the sub tag of a descriptor.
type Kind uint8

// Descriptor kinds.
const (
	LayoutKind Kind = 0x00
	CommonKind Kind = 0x01
	DataKind   Kind = 0x02
)

func (k Kind) String() string {
	switch k {
	case LayoutKind:
		return "names"
	case CommonKind:
		return "common"
	case DataKind:
		return "data"
	default:
		return fmt.Sprintf("kind(0x%02X)", uint8(k))
	}
}

// Descriptor is a decoded call frame record. Exactly one of Layout, Common and
// Data is set, matching Kind.
type Descriptor struct {
	Length uint32 // declared byte length of the record body
	Index  uint8
	Kind   Kind

	Layout *Layout
	Common *Common
	Data   *Data
}

func (d *Descriptor) String() string {
	switch d.Kind {
	case CommonKind:
		return fmt.Sprintf("CFI %02X common %s", d.Index, d.Common.Name)
	default:
		return fmt.Sprintf("CFI %02X %s", d.Index, d.Kind)
	}
}

// Table stores the descriptors of an archive by index.
type Table struct {
	segments    *segments.Table
	descriptors *registry.Table[uint8, *Descriptor]
}

// New creates an empty descriptor table. Static overlay frames are resolved
// against the passed segment table.
func New(segs *segments.Table) *Table {
	return &Table{
		segments:    segs,
		descriptors: registry.New[uint8, *Descriptor](),
	}
}

// Get returns the descriptor with the given index.
func (t *Table) Get(index uint8) (*Descriptor, bool) {
	return t.descriptors.Get(index)
}

// Len returns the number of registered descriptors.
func (t *Table) Len() int {
	return t.descriptors.Len()
}

// All returns all descriptors ordered by index.
func (t *Table) All() []*Descriptor {
	return t.descriptors.Sorted()
}

// Decode reads a call frame record. The record body is read through a cursor
// bounded to the declared length; unused trailing bytes of the body are ignored.
func (t *Table) Decode(c *cursor.Cursor) (*Descriptor, error) {
	length, err := c.Dynamic()
	if err != nil {
		return nil, err
	}
	body, err := c.Sub(int(length))
	if err != nil {
		return nil, fmt.Errorf("call frame body: %w", err)
	}

	if err := body.Skip(1); err != nil {
		return nil, err
	}
	indexOffset := body.Offset()
	index, err := body.U8()
	if err != nil {
		return nil, err
	}

	subTagOffset := body.Offset()
	subTag, err := body.U8()
	if err != nil {
		return nil, err
	}

	desc := &Descriptor{
		Length: length,
		Index:  index,
		Kind:   Kind(subTag),
	}
	switch desc.Kind {
	case LayoutKind:
		desc.Layout, err = t.decodeLayout(body)
	case CommonKind:
		desc.Common, err = t.decodeCommon(body)
	case DataKind:
		desc.Data, err = decodeData(body)
	default:
		return nil, decodeerr.FormatTag(subTagOffset, subTag, decodeerr.ErrUnknownSubTag, "call frame descriptor")
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s call frame %d: %w", desc.Kind, index, err)
	}

	if !t.descriptors.Insert(index, desc) {
		return nil, decodeerr.Format(indexOffset, decodeerr.ErrDuplicate, "call frame descriptor %d", index)
	}
	return desc, nil
}

// Common is a named unwind template.
type Common struct {
	Name         string
	CodeAlign    uint8
	DataAlign    uint8
	ReturnColumn uint8
	LayoutIndex  uint8
	Layout       *Layout // nil if the referenced layout is not registered
	Instructions []Instruction
}

func (t *Table) decodeCommon(c *cursor.Cursor) (*Common, error) {
	common := &Common{}
	var err error
	if common.Name, err = c.String8(); err != nil {
		return nil, err
	}
	if common.CodeAlign, err = c.U8(); err != nil {
		return nil, err
	}
	if common.DataAlign, err = c.U8(); err != nil {
		return nil, err
	}
	if common.ReturnColumn, err = c.U8(); err != nil {
		return nil, err
	}
	if err = c.Skip(2); err != nil {
		return nil, err
	}
	if common.LayoutIndex, err = c.U8(); err != nil {
		return nil, err
	}
	if desc, ok := t.descriptors.Get(common.LayoutIndex); ok {
		common.Layout = desc.Layout
	}

	for !c.Done() {
		ins, err := DecodeInstruction(c)
		if err != nil {
			return nil, fmt.Errorf("instruction %d of '%s': %w", len(common.Instructions), common.Name, err)
		}
		common.Instructions = append(common.Instructions, ins)
	}
	return common, nil
}

// Data is an auxiliary call frame record that is kept undecoded.
type Data struct {
	Reserved [3]byte
	Payload  []byte
}

func decodeData(c *cursor.Cursor) (*Data, error) {
	reserved, err := c.Bytes(3)
	if err != nil {
		return nil, err
	}
	payload, err := c.Bytes(c.Remaining())
	if err != nil {
		return nil, err
	}

	data := &Data{Payload: payload}
	copy(data.Reserved[:], reserved)
	return data, nil
}
