// Package symbols implements the archive symbol table.
//
// Symbols live in two independent namespaces selected by their location kind:
// relocatable symbols that are resolved within the module and external symbols
// that reference names outside of it. Both are keyed by an encoder assigned index.
// Symbols of functions carry debug information that is also registered by the
// function ordinal, which call graph edges use to reference caller and callee.
package symbols

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/names"
	"github.com/retroenv/ubrofdecode/internal/registry"
	"github.com/retroenv/ubrofdecode/internal/types"
)

// Location is the location kind of a symbol that selects its namespace.
type Location uint8

// Symbol location kinds.
const (
	PublicRelocatable Location = 0x02
	External          Location = 0x05
)

func (l Location) String() string {
	switch l {
	case PublicRelocatable:
		return "PUBLIC_REL"
	case External:
		return "EXTERNAL"
	default:
		return fmt.Sprintf("location(0x%02X)", uint8(l))
	}
}

// Sub tags of the optional function information following a symbol.
const (
	internalFunctionTag = 0xB0
	externalFunctionTag = 0xB1
)

// Symbol is a named and typed entry of one of the two namespaces.
type Symbol struct {
	Index    uint32
	Location Location
	Name     string
	Type     types.Ref
	Function *Function // nil for symbols without function debug information
}

func (s *Symbol) String() string {
	return s.Name
}

// Table holds both symbol namespaces and the function ordinal registry of an archive.
type Table struct {
	names *names.Table
	types *types.Graph

	relocatable *registry.Table[uint32, *Symbol]
	external    *registry.Table[uint32, *Symbol]
	functions   *registry.Table[uint16, *Function]
}

// New creates an empty symbol table resolving names and types through the
// passed tables.
func New(nameTable *names.Table, graph *types.Graph) *Table {
	return &Table{
		names:       nameTable,
		types:       graph,
		relocatable: registry.New[uint32, *Symbol](),
		external:    registry.New[uint32, *Symbol](),
		functions:   registry.New[uint16, *Function](),
	}
}

// GetRelocatable returns the relocatable symbol with the given index.
func (t *Table) GetRelocatable(index uint32) (*Symbol, bool) {
	return t.relocatable.Get(index)
}

// GetExternal returns the external symbol with the given index.
func (t *Table) GetExternal(index uint32) (*Symbol, bool) {
	return t.external.Get(index)
}

// Function returns the function debug information registered for an ordinal.
func (t *Table) Function(ordinal uint16) (*Function, bool) {
	return t.functions.Get(ordinal)
}

// Relocatable returns all relocatable symbols ordered by index.
func (t *Table) Relocatable() []*Symbol {
	return t.relocatable.Sorted()
}

// External returns all external symbols ordered by index.
func (t *Table) External() []*Symbol {
	return t.external.Sorted()
}

// Functions returns all registered functions ordered by ordinal.
func (t *Table) Functions() []*Function {
	return t.functions.Sorted()
}

// Decode reads a symbol record and registers it in the namespace of its location kind.
func (t *Table) Decode(c *cursor.Cursor) (*Symbol, error) {
	if err := c.Skip(4); err != nil {
		return nil, err
	}

	locationOffset := c.Offset()
	locationByte, err := c.U8()
	if err != nil {
		return nil, err
	}
	sym := &Symbol{Location: Location(locationByte)}

	var namespace *registry.Table[uint32, *Symbol]
	switch sym.Location {
	case PublicRelocatable:
		namespace = t.relocatable
	case External:
		namespace = t.external
	default:
		return nil, decodeerr.FormatTag(locationOffset, locationByte, decodeerr.ErrUnknownSubTag, "symbol location kind")
	}

	if sym.Index, err = c.Dynamic(); err != nil {
		return nil, err
	}
	if err := c.Skip(7); err != nil {
		return nil, err
	}

	nameOffset := c.Offset()
	nameIndex, err := c.U8()
	if err != nil {
		return nil, err
	}
	var ok bool
	if sym.Name, ok = t.names.Get(uint32(nameIndex)); !ok {
		return nil, decodeerr.Format(nameOffset, decodeerr.ErrLookup, "symbol name index %d", nameIndex)
	}

	if sym.Type, err = t.types.Get(c); err != nil {
		return nil, fmt.Errorf("type of symbol '%s': %w", sym.Name, err)
	}
	if err := c.Skip(3); err != nil {
		return nil, err
	}

	if sym.Function, err = t.decodeFunctionInfo(c, sym); err != nil {
		return nil, fmt.Errorf("function info of symbol '%s': %w", sym.Name, err)
	}

	if !namespace.Insert(sym.Index, sym) {
		return nil, decodeerr.Format(locationOffset, decodeerr.ErrDuplicate, "%s symbol index %d", sym.Location, sym.Index)
	}
	return sym, nil
}

// decodeFunctionInfo decodes the function debug information if the next byte
// announces it, otherwise it returns nil without consuming anything.
func (t *Table) decodeFunctionInfo(c *cursor.Cursor, sym *Symbol) (*Function, error) {
	if c.Done() {
		return nil, nil
	}
	next, err := c.PeekU8()
	if err != nil {
		return nil, err
	}

	var fn *Function
	start := c.Offset()
	switch next {
	case internalFunctionTag:
		fn, err = decodeInternalFunction(c)
	case externalFunctionTag:
		fn, err = decodeExternalFunction(c)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fn.Symbol = sym
	if !t.functions.Insert(fn.Ordinal, fn) {
		return nil, decodeerr.Format(start, decodeerr.ErrDuplicate, "function ordinal %d", fn.Ordinal)
	}
	return fn, nil
}
