package archive

import (
	"fmt"
	"time"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/memclass"
	"github.com/retroenv/ubrofdecode/internal/types"
)

// Library is the module header record.
type Library struct {
	Revision uint8
	CPA      uint8 // target processor
	Date     time.Time
	Name     string
}

func (l *Library) String() string {
	return fmt.Sprintf("%s.c %s REV=%d CPA=%d", l.Name, l.Date.Format("2006-01-02"), l.Revision, l.CPA)
}

func decodeLibrary(c *cursor.Cursor) (*Library, error) {
	start := c.Offset()
	header, err := c.Bytes(6)
	if err != nil {
		return nil, err
	}
	name, err := c.String8()
	if err != nil {
		return nil, err
	}

	year, month, day := 2000+int(header[2]), time.Month(header[3]), int(header[4])
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return nil, decodeerr.Format(start+2, decodeerr.ErrRange, "module date %d-%02d-%02d", year, header[3], day)
	}

	// header[5] is reserved
	return &Library{
		Revision: header[0],
		CPA:      header[1],
		Date:     date,
		Name:     name,
	}, nil
}

// Version is the format version of the producing tool.
type Version struct {
	Major    uint8
	Minor    uint8
	Revision uint8
}

func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

func decodeVersion(c *cursor.Cursor) (*Version, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return nil, err
	}
	return &Version{Major: b[0], Minor: b[1], Revision: b[2]}, nil
}

// Auxiliary contains tool flags.
type Auxiliary struct {
	Flags uint16
}

func decodeAuxiliary(c *cursor.Cursor) (*Auxiliary, error) {
	flags, err := c.U16()
	if err != nil {
		return nil, err
	}
	return &Auxiliary{Flags: flags}, nil
}

// Auxiliary1 contains tool flags and the tool version string.
type Auxiliary1 struct {
	Flags   uint16
	Version string
}

func decodeAuxiliary1(c *cursor.Cursor) (*Auxiliary1, error) {
	flags, err := c.U16()
	if err != nil {
		return nil, err
	}
	version, err := c.String8()
	if err != nil {
		return nil, err
	}
	return &Auxiliary1{Flags: flags, Version: version}, nil
}

// KeyValue is a module property. Properties are also collected in the context.
type KeyValue struct {
	Key   string
	Value string
}

func (kv *KeyValue) String() string {
	return kv.Key + "=" + kv.Value
}

func decodeKeyValue(ctx *Context, c *cursor.Cursor) (*KeyValue, error) {
	if err := c.Skip(4); err != nil { // record size
		return nil, err
	}

	kv := &KeyValue{}
	var err error
	if kv.Key, err = readString32(c); err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}
	if kv.Value, err = readString32(c); err != nil {
		return nil, fmt.Errorf("value of '%s': %w", kv.Key, err)
	}

	ctx.KeyValues[kv.Key] = kv.Value
	return kv, nil
}

func readString32(c *cursor.Cursor) (string, error) {
	length, err := c.U32()
	if err != nil {
		return "", err
	}
	return c.StringN(int(length))
}

// PointerClass is a memory class used as default for a pointer category.
type PointerClass struct {
	Index uint8
	Class *memclass.Class // nil if the memory class is not registered
}

func (p PointerClass) String() string {
	if p.Class != nil {
		return p.Class.Name
	}
	return fmt.Sprintf("class(0x%02X)", p.Index)
}

// PointerType lists the default memory classes of the pointer categories.
type PointerType struct {
	Static  PointerClass
	Auto    PointerClass
	Const   PointerClass
	General PointerClass
	Code    PointerClass
}

func decodePointerType(ctx *Context, c *cursor.Cursor) (*PointerType, error) {
	b, err := c.Bytes(5)
	if err != nil {
		return nil, err
	}

	resolve := func(index uint8) PointerClass {
		class, _ := ctx.Memories.Get(index)
		return PointerClass{Index: index, Class: class}
	}
	return &PointerType{
		Static:  resolve(b[0]),
		Auto:    resolve(b[1]),
		Const:   resolve(b[2]),
		General: resolve(b[3]),
		Code:    resolve(b[4]),
	}, nil
}

// SizeType is the byte size of a type in the target configuration.
type SizeType struct {
	Type types.Ref
	Size uint8
	Node *types.Node // nil if the type is not registered
}

func (s *SizeType) String() string {
	if s.Node != nil {
		return fmt.Sprintf("%s = %d", s.Node, s.Size)
	}
	return fmt.Sprintf("type 0x%02X = %d", uint32(s.Type), s.Size)
}

func decodeSizeType(ctx *Context, c *cursor.Cursor) (*SizeType, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return nil, err
	}

	st := &SizeType{Type: types.Ref(b[0]), Size: b[1]}
	st.Node, _ = ctx.Types.Lookup(st.Type)
	return st, nil
}

// AttributeKind is the kind of entity an attribute record describes.
type AttributeKind uint8

// FunctionAttribute marks a function attribute record.
const FunctionAttribute AttributeKind = 1

func (k AttributeKind) String() string {
	if k == FunctionAttribute {
		return "function"
	}
	return fmt.Sprintf("attribute(0x%02X)", uint8(k))
}

// Attribute names an attribute of an entity.
type Attribute struct {
	Kind  AttributeKind
	Index uint8
	Name  string
}

func decodeAttribute(c *cursor.Cursor) (*Attribute, error) {
	if err := c.Skip(2); err != nil { // record size
		return nil, err
	}
	b, err := c.Bytes(2)
	if err != nil {
		return nil, err
	}
	name, err := c.String8()
	if err != nil {
		return nil, err
	}
	return &Attribute{Kind: AttributeKind(b[0]), Index: b[1], Name: name}, nil
}

// EndRecord closes a module and carries its checksum.
type EndRecord struct {
	CRC uint16
}

func decodeEndRecord(c *cursor.Cursor) (*EndRecord, error) {
	crc, err := c.U16()
	if err != nil {
		return nil, err
	}
	return &EndRecord{CRC: crc}, nil
}
