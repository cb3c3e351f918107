package archive

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/segments"
	"github.com/retroenv/ubrofdecode/internal/symbols"
)

// Relocation expression records.
type (
	// Abs8 pushes an 8 bit literal.
	Abs8 struct{ Value uint8 }
	// Abs16 pushes a 16 bit literal.
	Abs16 struct{ Value uint16 }
	// Pop8 stores the top of the expression stack as one byte.
	Pop8 struct{}
	// Pop24 stores the top of the expression stack as three bytes.
	Pop24 struct{}
	// PushAbs pushes a 32 bit absolute value.
	PushAbs struct{ Value uint32 }
	// PushPcr pushes a program counter relative value.
	PushPcr struct{ Value uint32 }
	// Minus subtracts the two topmost expression stack entries.
	Minus struct{}
	// DeleteTos drops the top of the expression stack.
	DeleteTos struct{}
	// AssemblyMode switches the assembly mode.
	AssemblyMode struct{ Mode uint8 }
)

// Push pushes the value of a symbol reference.
type Push struct {
	External bool
	Index    uint32
	Reserved uint32
	Symbol   *symbols.Symbol // nil if the symbol is not registered yet
}

func (p *Push) String() string {
	if p.Symbol != nil {
		return "push " + p.Symbol.Name
	}
	if p.External {
		return fmt.Sprintf("push external %d", p.Index)
	}
	return fmt.Sprintf("push relocatable %d", p.Index)
}

func decodePush(ctx *Context, c *cursor.Cursor, external bool) (*Push, error) {
	index, err := c.Dynamic()
	if err != nil {
		return nil, err
	}
	reserved, err := c.U32()
	if err != nil {
		return nil, err
	}

	push := &Push{External: external, Index: index, Reserved: reserved}
	if external {
		push.Symbol, _ = ctx.Symbols.GetExternal(index)
	} else {
		push.Symbol, _ = ctx.Symbols.GetRelocatable(index)
	}
	return push, nil
}

// OrgRel sets the location counter relative to a segment.
type OrgRel struct {
	SegmentIndex uint8
	Segment      *segments.Segment // nil if the segment is not registered
	Offset       uint32
}

func decodeOrgRel(ctx *Context, c *cursor.Cursor) (*OrgRel, error) {
	index, err := c.U8()
	if err != nil {
		return nil, err
	}
	offset, err := c.U32()
	if err != nil {
		return nil, err
	}

	org := &OrgRel{SegmentIndex: index, Offset: offset}
	org.Segment, _ = ctx.Segments.Get(index)
	return org, nil
}

func decodeAbs8(c *cursor.Cursor) (*Abs8, error) {
	value, err := c.U8()
	if err != nil {
		return nil, err
	}
	return &Abs8{Value: value}, nil
}

func decodeAbs16(c *cursor.Cursor) (*Abs16, error) {
	value, err := c.U16()
	if err != nil {
		return nil, err
	}
	return &Abs16{Value: value}, nil
}

// Diagnostic records.
type (
	// StackError carries the message of an expression stack error.
	StackError struct{ Message string }
	// Check is a range check of the top of the expression stack.
	Check struct{ Upper, Lower uint32 }
	// Copy duplicates the top of the expression stack.
	Copy struct{}
	// LSR shifts the top of the expression stack right.
	LSR struct{ Value uint32 }
)

func decodeCheck(c *cursor.Cursor) (*Check, error) {
	upper, err := c.U32()
	if err != nil {
		return nil, err
	}
	lower, err := c.U32()
	if err != nil {
		return nil, err
	}
	return &Check{Upper: upper, Lower: lower}, nil
}
