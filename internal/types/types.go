// Package types implements the debug type graph of an archive.
//
// Types are nodes of an arena addressed by their encoder assigned index. A node is
// registered before its body is decoded, so nodes can reference themselves and
// nodes that are still being decoded. References between nodes are stored as Ref
// handles and resolved on demand, which keeps cyclic graphs finite.
package types

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/memclass"
	"github.com/retroenv/ubrofdecode/internal/names"
	"github.com/retroenv/ubrofdecode/internal/registry"
)

// Ref is a handle to a node of the graph.
type Ref uint32

// Kind is the variant of a type node.
type Kind uint8

// Type node variants. The values of the decoded variants are their record sub tags.
const (
	Intrinsic         Kind = 0x00
	Pointer           Kind = 0x0F
	Function          Kind = 0x14
	Array             Kind = 0x29
	DataAttribute     Kind = 0x2A
	FunctionAttribute Kind = 0x2B
	Typedef           Kind = 0x31
	StructOrUnion     Kind = 0x34
)

var kindNames = map[Kind]string{
	Intrinsic:         "intrinsic",
	Pointer:           "pointer",
	Function:          "function",
	Array:             "array",
	DataAttribute:     "data attribute",
	FunctionAttribute: "function attribute",
	Typedef:           "typedef",
	StructOrUnion:     "struct/union",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(0x%02X)", uint8(k))
}

// structDiscriminant marks a StructOrUnion node as struct, any other value is a union.
const structDiscriminant = 9

// Node is a type of the graph. Which fields are set depends on Kind.
type Node struct {
	Index Ref
	Kind  Kind

	Name string // intrinsic, typedef and struct/union name
	Size uint32 // byte size of intrinsics, arrays and struct/unions

	Target Ref // pointer target, array element, typedef alias or wrapped attribute type

	// function signature
	Return  Ref
	Calling uint8 // calling convention
	Params  []Ref

	Count uint32 // array element count

	// data and function attributes
	MemoryIndex uint8
	Memory      *memclass.Class // nil if the memory class is not registered
	Attribute   [2]uint32       // opaque fields, preserved verbatim

	// struct/union
	Discriminant uint32
	Members      []Member
}

// Member is a named member of a struct or union.
type Member struct {
	Name string
	Type Ref
}

// IsStruct returns whether a StructOrUnion node is a struct.
func (n *Node) IsStruct() bool {
	return n.Kind == StructOrUnion && n.Discriminant == structDiscriminant
}

func (n *Node) String() string {
	switch n.Kind {
	case Intrinsic, Typedef:
		return n.Name
	case StructOrUnion:
		if n.IsStruct() {
			return "struct " + n.Name
		}
		return "union " + n.Name
	default:
		return fmt.Sprintf("%s#%d", n.Kind, n.Index)
	}
}

type intrinsic struct {
	name string
	size uint32
}

// intrinsics are the predefined type indices that archives reference without
// a type record.
var intrinsics = map[Ref]intrinsic{
	0x01: {"unsigned char", 1},
	0x02: {"signed char", 1},
	0x03: {"unsigned short", 2},
	0x04: {"signed short", 2},
	0x05: {"unsigned int", 4},
	0x06: {"signed int", 4},
	0x07: {"unsigned long", 4},
	0x08: {"signed long", 4},
	0x09: {"float", 4},
	0x0A: {"double", 4},
	0x0B: {"long double", 4},
	0x0C: {"void", 0},
	0x2D: {"unsigned long long", 4},
	0x2E: {"signed long long", 4},
	0x2F: {"bool", 1},
	0x30: {"wchar_t", 2},
	0x36: {"char", 1},
}

// Graph is the type arena of one archive.
type Graph struct {
	names    *names.Table
	memories *memclass.Table

	nodes   *registry.Table[Ref, *Node]
	decoded *registry.Table[Ref, struct{}]
}

// New creates a type graph seeded with the intrinsic types. Names and memory
// classes referenced by type records are resolved through the passed tables.
func New(nameTable *names.Table, memories *memclass.Table) *Graph {
	g := &Graph{
		names:    nameTable,
		memories: memories,
		nodes:    registry.New[Ref, *Node](),
		decoded:  registry.New[Ref, struct{}](),
	}
	for index, in := range intrinsics {
		g.nodes.Replace(index, &Node{
			Index: index,
			Kind:  Intrinsic,
			Name:  in.name,
			Size:  in.size,
		})
	}
	return g
}

// Lookup returns the node for the given handle.
func (g *Graph) Lookup(ref Ref) (*Node, bool) {
	return g.nodes.Get(ref)
}

// Len returns the number of nodes including the intrinsics.
func (g *Graph) Len() int {
	return g.nodes.Len()
}

// Decoded returns all nodes that were decoded from type records, ordered by index.
func (g *Graph) Decoded() []*Node {
	indices := g.decoded.Indices()
	nodes := make([]*Node, 0, len(indices))
	for _, index := range indices {
		node, _ := g.nodes.Get(index)
		nodes = append(nodes, node)
	}
	return nodes
}

// Get reads a dynamic type index and returns the handle of the registered node.
// A reference to an index without node is a format error.
func (g *Graph) Get(c *cursor.Cursor) (Ref, error) {
	start := c.Offset()
	index, err := c.Dynamic()
	if err != nil {
		return 0, err
	}
	ref := Ref(index)
	if !g.nodes.Has(ref) {
		return 0, decodeerr.Format(start, decodeerr.ErrLookup, "type index 0x%X", index)
	}
	return ref, nil
}

// Decode reads a type record and stores the node at its index.
func (g *Graph) Decode(c *cursor.Cursor) (*Node, error) {
	start := c.Offset()
	index, err := c.Dynamic()
	if err != nil {
		return nil, err
	}
	ref := Ref(index)
	if !g.decoded.Insert(ref, struct{}{}) {
		return nil, decodeerr.Format(start, decodeerr.ErrDuplicate, "type index 0x%X", index)
	}

	subTagOffset := c.Offset()
	subTag, err := c.U8()
	if err != nil {
		return nil, err
	}

	// register before decoding the body to allow self references
	node := &Node{Index: ref, Kind: Kind(subTag)}
	g.nodes.Replace(ref, node)

	switch node.Kind {
	case Pointer:
		err = g.decodePointer(c, node)
	case Function:
		err = g.decodeFunction(c, node)
	case Array:
		err = g.decodeArray(c, node)
	case DataAttribute, FunctionAttribute:
		err = g.decodeAttribute(c, node)
	case Typedef:
		err = g.decodeTypedef(c, node)
	case StructOrUnion:
		err = g.decodeStructOrUnion(c, node)
	default:
		return nil, decodeerr.FormatTag(subTagOffset, subTag, decodeerr.ErrUnknownSubTag, "type record")
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s type 0x%X: %w", node.Kind, index, err)
	}
	return node, nil
}

func (g *Graph) decodePointer(c *cursor.Cursor, node *Node) error {
	target, err := g.Get(c)
	if err != nil {
		return err
	}
	node.Target = target
	return nil
}

func (g *Graph) decodeFunction(c *cursor.Cursor, node *Node) error {
	ret, err := g.Get(c)
	if err != nil {
		return err
	}
	node.Return = ret

	if node.Calling, err = c.U8(); err != nil {
		return err
	}
	count, err := c.U8()
	if err != nil {
		return err
	}

	node.Params = make([]Ref, 0, count)
	for i := 0; i < int(count); i++ {
		param, err := g.Get(c)
		if err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		node.Params = append(node.Params, param)
	}
	return nil
}

func (g *Graph) decodeArray(c *cursor.Cursor, node *Node) error {
	element, err := g.Get(c)
	if err != nil {
		return err
	}
	node.Target = element

	if node.Size, err = c.U32(); err != nil {
		return err
	}
	node.Count, err = c.U32()
	return err
}

func (g *Graph) decodeAttribute(c *cursor.Cursor, node *Node) error {
	memIndex, err := c.U8()
	if err != nil {
		return err
	}
	node.MemoryIndex = memIndex
	node.Memory, _ = g.memories.Get(memIndex)

	if node.Target, err = g.Get(c); err != nil {
		return err
	}

	if node.Attribute[0], err = c.U32(); err != nil {
		return err
	}
	if err = c.Skip(1); err != nil {
		return err
	}
	node.Attribute[1], err = c.U32()
	return err
}

func (g *Graph) decodeTypedef(c *cursor.Cursor, node *Node) error {
	alias, err := g.Get(c)
	if err != nil {
		return err
	}
	node.Target = alias

	node.Name, err = g.readName(c)
	return err
}

func (g *Graph) decodeStructOrUnion(c *cursor.Cursor, node *Node) error {
	var err error
	if node.Name, err = g.readName(c); err != nil {
		return err
	}
	if node.Discriminant, err = c.U32(); err != nil {
		return err
	}
	if node.Size, err = c.U32(); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}

	for i := uint32(0); i < count; i++ {
		member, err := g.decodeMember(c)
		if err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
		node.Members = append(node.Members, member)
	}
	return nil
}

func (g *Graph) decodeMember(c *cursor.Cursor) (Member, error) {
	if err := c.Skip(4); err != nil { // member index
		return Member{}, err
	}
	name, err := g.readName(c)
	if err != nil {
		return Member{}, err
	}
	typ, err := g.Get(c)
	if err != nil {
		return Member{}, err
	}
	if err := c.Skip(4); err != nil {
		return Member{}, err
	}
	return Member{Name: name, Type: typ}, nil
}

// readName reads a 32 bit name table index. The no reference sentinel results
// in an empty name, any other unregistered index is a format error.
func (g *Graph) readName(c *cursor.Cursor) (string, error) {
	start := c.Offset()
	index, err := c.U32()
	if err != nil {
		return "", err
	}
	if index == names.NoReference {
		return "", nil
	}
	name, ok := g.names.Get(index)
	if !ok {
		return "", decodeerr.Format(start, decodeerr.ErrLookup, "name index %d", index)
	}
	return name, nil
}
