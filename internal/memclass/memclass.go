// Package memclass implements the table of 8051 memory class descriptors like
// __xdata or __idata that qualify pointers and variables.
package memclass

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/registry"
)

// Kind is the intrinsic element kind of a memory class.
type Kind uint8

var kindNames = map[Kind]string{
	0x01: "unsigned char",
	0x02: "signed char",
	0x03: "unsigned short",
	0x04: "signed short",
	0x05: "unsigned int",
	0x06: "signed int",
	0x07: "unsigned long",
	0x08: "signed long",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(0x%02X)", uint8(k))
}

// Class is a memory class descriptor.
type Class struct {
	Index       uint8
	PointerSize uint8
	Kind        Kind
	Flags       uint8
	Name        string
}

func (c *Class) String() string {
	return c.Name
}

// Table stores the memory classes of an archive by their encoder assigned index.
type Table struct {
	classes *registry.Table[uint8, *Class]
}

// New creates an empty memory class table.
func New() *Table {
	return &Table{
		classes: registry.New[uint8, *Class](),
	}
}

// Get returns the memory class with the given index.
func (t *Table) Get(index uint8) (*Class, bool) {
	return t.classes.Get(index)
}

// Len returns the number of registered memory classes.
func (t *Table) Len() int {
	return t.classes.Len()
}

// All returns all memory classes ordered by index.
func (t *Table) All() []*Class {
	return t.classes.Sorted()
}

// Decode reads a memory class descriptor and registers it.
func (t *Table) Decode(c *cursor.Cursor) (*Class, error) {
	start := c.Offset()
	if err := c.Skip(2); err != nil { // record size
		return nil, err
	}

	var fields [4]uint8
	for i := range fields {
		b, err := c.U8()
		if err != nil {
			return nil, err
		}
		fields[i] = b
	}

	length, err := c.U32()
	if err != nil {
		return nil, err
	}
	name, err := c.StringN(int(length))
	if err != nil {
		return nil, err
	}

	class := &Class{
		Index:       fields[0],
		PointerSize: fields[1],
		Kind:        Kind(fields[2]),
		Flags:       fields[3],
		Name:        name,
	}
	if !t.classes.Insert(class.Index, class) {
		return nil, decodeerr.Format(start, decodeerr.ErrDuplicate, "memory class %d", class.Index)
	}
	return class, nil
}
