package symbols

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

// frameCountTag announces a FrameCount block after function and call records.
const frameCountTag = 0xC4

// FunctionKind distinguishes functions defined in the module from external ones.
type FunctionKind uint8

// Function kinds.
const (
	InternalFunction FunctionKind = iota
	ExternalFunction
)

func (k FunctionKind) String() string {
	if k == ExternalFunction {
		return "XFUNC"
	}
	return "FUNC"
}

// Function is the debug information attached to a function symbol.
type Function struct {
	Kind       FunctionKind
	Ordinal    uint16
	File       uint16 // only set for internal functions
	Line       uint16 // only set for internal functions
	Definition uint32
	Frames     []FrameCount

	Symbol *Symbol // symbol the information is attached to
}

func (f *Function) String() string {
	if f.Symbol != nil {
		return f.Symbol.Name
	}
	return fmt.Sprintf("%s=%04X", f.Kind, f.Ordinal)
}

// FrameCount is a block of observed stack frame usage samples.
type FrameCount struct {
	Sizes []FrameSize
}

// FrameSize is the usage of one stack.
type FrameSize struct {
	Stack uint8 // stack number
	Size  uint32
	Flags uint16
}

func (f FrameSize) String() string {
	return fmt.Sprintf("SNO=%02X %08X %04X", f.Stack, f.Size, f.Flags)
}

// CallEdge is an edge of the source call graph.
type CallEdge struct {
	Caller *Function
	Callee *Function
	Flags  uint16
	Frames []FrameCount
}

func (e *CallEdge) String() string {
	return fmt.Sprintf("%s -> %s flags %04X", e.Caller, e.Callee, e.Flags)
}

func decodeInternalFunction(c *cursor.Cursor) (*Function, error) {
	if err := c.Skip(1); err != nil { // sub tag
		return nil, err
	}

	fn := &Function{Kind: InternalFunction}
	var err error
	if fn.Ordinal, err = c.U16(); err != nil {
		return nil, err
	}
	if fn.File, err = c.U16(); err != nil {
		return nil, err
	}
	if fn.Line, err = c.U16(); err != nil {
		return nil, err
	}
	if fn.Definition, err = c.U32(); err != nil {
		return nil, err
	}
	if err = c.Skip(2); err != nil {
		return nil, err
	}

	fn.Frames, err = decodeFrameCounts(c)
	return fn, err
}

func decodeExternalFunction(c *cursor.Cursor) (*Function, error) {
	if err := c.Skip(1); err != nil { // sub tag
		return nil, err
	}

	fn := &Function{Kind: ExternalFunction}
	var err error
	if fn.Ordinal, err = c.U16(); err != nil {
		return nil, err
	}
	if fn.Definition, err = c.U32(); err != nil {
		return nil, err
	}

	fn.Frames, err = decodeFrameCounts(c)
	return fn, err
}

// decodeFrameCounts collects FrameCount blocks as long as the next byte is
// the FrameCount tag.
func decodeFrameCounts(c *cursor.Cursor) ([]FrameCount, error) {
	var counts []FrameCount
	for !c.Done() {
		next, err := c.PeekU8()
		if err != nil {
			return nil, err
		}
		if next != frameCountTag {
			break
		}
		if err := c.Skip(1); err != nil {
			return nil, err
		}

		count, err := DecodeFrameCount(c)
		if err != nil {
			return nil, fmt.Errorf("frame count %d: %w", len(counts), err)
		}
		counts = append(counts, count)
	}
	return counts, nil
}

// DecodeFrameCount reads the body of a FrameCount block: a 32 bit count followed
// by that many frame sizes.
func DecodeFrameCount(c *cursor.Cursor) (FrameCount, error) {
	count, err := c.U32()
	if err != nil {
		return FrameCount{}, err
	}

	fc := FrameCount{Sizes: []FrameSize{}}
	for i := uint32(0); i < count; i++ {
		if err := c.Skip(1); err != nil {
			return FrameCount{}, err
		}

		var size FrameSize
		if size.Stack, err = c.U8(); err != nil {
			return FrameCount{}, err
		}
		if size.Size, err = c.U32(); err != nil {
			return FrameCount{}, err
		}
		if size.Flags, err = c.U16(); err != nil {
			return FrameCount{}, err
		}
		fc.Sizes = append(fc.Sizes, size)
	}
	return fc, nil
}

// DecodeCallEdge reads a source call graph edge. Caller and callee are resolved
// through the function ordinal registry and have to be registered.
func (t *Table) DecodeCallEdge(c *cursor.Cursor) (*CallEdge, error) {
	edge := &CallEdge{}
	var err error
	if edge.Caller, err = t.readFunction(c, "caller"); err != nil {
		return nil, err
	}
	if edge.Callee, err = t.readFunction(c, "callee"); err != nil {
		return nil, err
	}
	if edge.Flags, err = c.U16(); err != nil {
		return nil, err
	}

	edge.Frames, err = decodeFrameCounts(c)
	if err != nil {
		return nil, err
	}
	return edge, nil
}

func (t *Table) readFunction(c *cursor.Cursor, role string) (*Function, error) {
	start := c.Offset()
	ordinal, err := c.U16()
	if err != nil {
		return nil, err
	}
	fn, ok := t.functions.Get(ordinal)
	if !ok {
		return nil, decodeerr.Format(start, decodeerr.ErrLookup, "%s function ordinal %d", role, ordinal)
	}
	return fn, nil
}
