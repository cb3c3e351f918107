// Package segments implements the archive segment table.
package segments

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/registry"
)

// Policy is the segment allocation policy.
type Policy uint8

// Segment allocation policies, stored in the record with the top bit set.
const (
	Normal  Policy = 0x00
	Reorder Policy = 0x20

	policyMarker = 0x80
)

func (p Policy) String() string {
	switch p {
	case Normal:
		return "NORMAL"
	case Reorder:
		return "REORDER"
	default:
		return fmt.Sprintf("policy(0x%02X)", uint8(p))
	}
}

// Class is the memory storage class of a segment.
type Class uint8

// Segment storage classes.
const (
	Code  Class = 0x21
	Data  Class = 0x22
	XData Class = 0x23
	IData Class = 0x24
	Const Class = 0x27
)

var classNames = map[Class]string{
	Code:  "CODE",
	Data:  "DATA",
	XData: "XDATA",
	IData: "IDATA",
	Const: "CONST",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(0x%02X)", uint8(c))
}

// Segment is a named memory segment.
type Segment struct {
	Index  uint8
	Policy Policy
	Class  Class
	Name   string
}

func (s *Segment) String() string {
	return fmt.Sprintf("%02X: %s %s SPA=%s", s.Index, s.Name, s.Class, s.Policy)
}

// Table stores the segments of an archive by their encoder assigned index.
type Table struct {
	segments *registry.Table[uint8, *Segment]
	byName   map[string]*Segment
}

// New creates an empty segment table.
func New() *Table {
	return &Table{
		segments: registry.New[uint8, *Segment](),
		byName:   make(map[string]*Segment),
	}
}

// Get returns the segment with the given index.
func (t *Table) Get(index uint8) (*Segment, bool) {
	return t.segments.Get(index)
}

// ByName returns the first registered segment with the given name.
func (t *Table) ByName(name string) (*Segment, bool) {
	seg, ok := t.byName[name]
	return seg, ok
}

// Len returns the number of registered segments.
func (t *Table) Len() int {
	return t.segments.Len()
}

// All returns all segments ordered by index.
func (t *Table) All() []*Segment {
	return t.segments.Sorted()
}

// Decode reads a segment record and registers it.
func (t *Table) Decode(c *cursor.Cursor) (*Segment, error) {
	start := c.Offset()
	spa, err := c.U8()
	if err != nil {
		return nil, err
	}
	policy := Policy(spa - policyMarker)
	if spa < policyMarker || (policy != Normal && policy != Reorder) {
		return nil, decodeerr.FormatTag(start, spa, decodeerr.ErrUnknownSubTag, "segment allocation policy")
	}

	index, err := c.U8()
	if err != nil {
		return nil, err
	}

	classOffset := c.Offset()
	classByte, err := c.U8()
	if err != nil {
		return nil, err
	}
	class := Class(classByte)
	if _, ok := classNames[class]; !ok {
		return nil, decodeerr.FormatTag(classOffset, classByte, decodeerr.ErrUnknownSubTag, "segment storage class")
	}

	name, err := c.String8()
	if err != nil {
		return nil, err
	}

	seg := &Segment{
		Index:  index,
		Policy: policy,
		Class:  class,
		Name:   name,
	}
	if !t.segments.Insert(index, seg) {
		return nil, decodeerr.Format(start, decodeerr.ErrDuplicate, "segment %d", index)
	}
	if _, ok := t.byName[name]; !ok {
		t.byName[name] = seg
	}
	return seg, nil
}
