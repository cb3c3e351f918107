package callframe

import (
	"fmt"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/segments"
)

// explicitBitsLimit is the exclusive upper bound of an explicit column bit width.
// Larger bytes start the next column name.
const explicitBitsLimit = 0x20

// FrameKind is the variant of a frame type of a layout.
type FrameKind uint8

// Frame type variants.
const (
	StackOnColumn FrameKind = 0x00
	StaticOverlay FrameKind = 0x01
	BaseAddress   FrameKind = 0x02
)

// FrameType describes where a frame of a layout lives.
type FrameType struct {
	Kind FrameKind

	// stack on column
	Column uint8
	Type   uint8

	// static overlay
	Name    string
	Segment *segments.Segment // nil if no segment with the name is registered
}

func (f FrameType) String() string {
	if f.Kind == StaticOverlay {
		return fmt.Sprintf("static overlay frame in segment \"%s\"", f.Name)
	}
	return fmt.Sprintf("stack based on column %d", f.Column)
}

// Column is a named register column of the unwind table.
type Column struct {
	Name string
	Bits uint8
}

// ComponentGroup lists the columns that together form the owner column.
type ComponentGroup struct {
	Owner   uint8
	Members []uint8
}

// Layout names the columns of the unwind table.
type Layout struct {
	Version        uint8
	DefaultBits    uint8
	Frames         []FrameType
	VirtualColumns []uint8
	Columns        []Column
	Components     []ComponentGroup
}

// Component returns the member columns of the given owner column.
func (l *Layout) Component(owner uint8) ([]uint8, bool) {
	for _, group := range l.Components {
		if group.Owner == owner {
			return group.Members, true
		}
	}
	return nil, false
}

func (t *Table) decodeLayout(c *cursor.Cursor) (*Layout, error) {
	layout := &Layout{}
	var err error
	if layout.Version, err = c.U8(); err != nil {
		return nil, err
	}
	if err = c.Skip(1); err != nil {
		return nil, err
	}
	if layout.DefaultBits, err = c.U8(); err != nil {
		return nil, err
	}

	frameCount, err := c.U8()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(frameCount); i++ {
		frame, err := t.decodeFrameType(c)
		if err != nil {
			return nil, fmt.Errorf("frame type %d: %w", i, err)
		}
		layout.Frames = append(layout.Frames, frame)
	}

	columnCount, err := c.U8()
	if err != nil {
		return nil, err
	}
	if err = c.Skip(8); err != nil {
		return nil, err
	}

	virtualCount, err := c.U8()
	if err != nil {
		return nil, err
	}
	if layout.VirtualColumns, err = c.Bytes(int(virtualCount)); err != nil {
		return nil, err
	}

	for i := 0; i < int(columnCount); i++ {
		column, err := decodeColumn(c, layout.DefaultBits)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		layout.Columns = append(layout.Columns, column)
	}

	if layout.Components, err = decodeComponents(c); err != nil {
		return nil, err
	}
	return layout, nil
}

func (t *Table) decodeFrameType(c *cursor.Cursor) (FrameType, error) {
	start := c.Offset()
	kind, err := c.U8()
	if err != nil {
		return FrameType{}, err
	}

	frame := FrameType{Kind: FrameKind(kind)}
	switch frame.Kind {
	case StackOnColumn:
		if frame.Column, err = c.U8(); err != nil {
			return FrameType{}, err
		}
		frame.Type, err = c.U8()
		return frame, err

	case StaticOverlay:
		if frame.Name, err = c.String8(); err != nil {
			return FrameType{}, err
		}
		frame.Segment, _ = t.segments.ByName(frame.Name)
		return frame, nil

	case BaseAddress:
		return FrameType{}, decodeerr.Unimplemented(start, kind, "base address frame type")

	default:
		return FrameType{}, decodeerr.FormatTag(start, kind, decodeerr.ErrUnknownSubTag, "frame type")
	}
}

// decodeColumn reads a column name followed by an optional bit width. The width
// is present if the byte after the next one is below explicitBitsLimit.
func decodeColumn(c *cursor.Cursor, defaultBits uint8) (Column, error) {
	name, err := c.String8()
	if err != nil {
		return Column{}, err
	}
	column := Column{Name: name, Bits: defaultBits}

	probe, err := c.PeekU8At(1)
	if err != nil || probe >= explicitBitsLimit {
		return column, nil
	}
	if column.Bits, err = c.U8(); err != nil {
		return Column{}, err
	}
	return column, nil
}

func decodeComponents(c *cursor.Cursor) ([]ComponentGroup, error) {
	var groups []ComponentGroup
	owners := set.New[uint8]()

	for {
		count, err := c.U8()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return groups, nil
		}

		ownerOffset := c.Offset()
		owner, err := c.U8()
		if err != nil {
			return nil, err
		}
		if owners.Contains(owner) {
			return nil, decodeerr.Format(ownerOffset, decodeerr.ErrDuplicate, "component owner column %d", owner)
		}
		owners.Add(owner)

		members, err := c.Bytes(int(count))
		if err != nil {
			return nil, err
		}
		groups = append(groups, ComponentGroup{Owner: owner, Members: members})
	}
}
