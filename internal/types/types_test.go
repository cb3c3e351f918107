package types

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
	"github.com/retroenv/ubrofdecode/internal/memclass"
	"github.com/retroenv/ubrofdecode/internal/names"
)

func newGraph(t *testing.T, nameList ...string) *Graph {
	t.Helper()
	nameTable := names.New()
	for _, name := range nameList {
		_, err := nameTable.Add(name, names.NoReference)
		assert.NoError(t, err)
	}
	return New(nameTable, memclass.New())
}

func TestIntrinsicsArePreseeded(t *testing.T) {
	g := newGraph(t)

	node, ok := g.Lookup(0x0C)
	assert.True(t, ok)
	assert.Equal(t, Intrinsic, node.Kind)
	assert.Equal(t, "void", node.Name)
	assert.Equal(t, uint32(0), node.Size)

	ref, err := g.Get(cursor.New([]byte{0x36}))
	assert.NoError(t, err)
	assert.Equal(t, Ref(0x36), ref)
	assert.Empty(t, g.Decoded())
}

func TestPointerSelfReference(t *testing.T) {
	g := newGraph(t)
	c := cursor.New([]byte{0x05, byte(Pointer), 0x05})

	node, err := g.Decode(c)
	assert.NoError(t, err)
	assert.True(t, c.Done())
	assert.Equal(t, Pointer, node.Kind)
	assert.Equal(t, Ref(5), node.Target)

	target, ok := g.Lookup(node.Target)
	assert.True(t, ok)
	assert.Equal(t, node, target)
}

func TestMutualReference(t *testing.T) {
	g := newGraph(t, "node")

	// struct 0x80 { node *next; } where 0x81 is a pointer to 0x80
	structRecord := []byte{
		0x80, 0x01, byte(StructOrUnion),
		0x00, 0x00, 0x00, 0x00, // name "node"
		0x00, 0x00, 0x00, 0x09, // struct
		0x00, 0x00, 0x00, 0x02, // size
		0x00, 0x00, 0x00, 0x01, // one member
		0x00, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF, // unnamed
		0x80, 0x01, // type 0x80
		0x00, 0x00, 0x00, 0x00,
	}
	pointerRecord := []byte{0x81, 0x01, byte(Pointer), 0x80, 0x01}

	c := cursor.New(append(structRecord, pointerRecord...))
	st, err := g.Decode(c)
	assert.NoError(t, err)
	ptr, err := g.Decode(c)
	assert.NoError(t, err)
	assert.True(t, c.Done())

	assert.True(t, st.IsStruct())
	assert.Equal(t, "struct node", st.String())
	assert.Equal(t, []Member{{Name: "", Type: 0x80}}, st.Members)
	assert.Equal(t, Ref(0x80), ptr.Target)
	assert.Len(t, g.Decoded(), 2)
}

//nolint:funlen // test functions can be long
func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want *Node
	}{
		{
			name: "function signature",
			data: []byte{0x40, byte(Function), 0x0C, 0x02, 0x02, 0x01, 0x05},
			want: &Node{Index: 0x40, Kind: Function, Return: 0x0C, Calling: 0x02, Params: []Ref{0x01, 0x05}},
		},
		{
			name: "function without parameters",
			data: []byte{0x41, byte(Function), 0x0C, 0x00, 0x00},
			want: &Node{Index: 0x41, Kind: Function, Return: 0x0C, Params: []Ref{}},
		},
		{
			name: "array",
			data: []byte{
				0x42, byte(Array), 0x01,
				0x00, 0x00, 0x00, 0x10,
				0x00, 0x00, 0x00, 0x10,
			},
			want: &Node{Index: 0x42, Kind: Array, Target: 0x01, Size: 16, Count: 16},
		},
		{
			name: "data attribute without registered memory class",
			data: []byte{
				0x43, byte(DataAttribute), 0x06, 0x03,
				0x12, 0x34, 0x56, 0x78,
				0xEE,
				0x9A, 0xBC, 0xDE, 0xF0,
			},
			want: &Node{
				Index: 0x43, Kind: DataAttribute, MemoryIndex: 0x06, Target: 0x03,
				Attribute: [2]uint32{0x12345678, 0x9ABCDEF0},
			},
		},
		{
			name: "typedef",
			data: []byte{0x44, byte(Typedef), 0x01, 0x00, 0x00, 0x00, 0x00},
			want: &Node{Index: 0x44, Kind: Typedef, Target: 0x01, Name: "uint8_t"},
		},
		{
			name: "union",
			data: []byte{
				0x45, byte(StructOrUnion),
				0x00, 0x00, 0x00, 0x01, // "value"
				0x00, 0x00, 0x00, 0x0A, // union
				0x00, 0x00, 0x00, 0x02,
				0x00, 0x00, 0x00, 0x02,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x03, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x01, 0x00, 0x00, 0x00, 0x00,
			},
			want: &Node{
				Index: 0x45, Kind: StructOrUnion, Name: "value", Discriminant: 0x0A, Size: 2,
				Members: []Member{{Name: "word", Type: 0x03}, {Name: "byte", Type: 0x01}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, "uint8_t", "value", "word", "byte")
			c := cursor.New(tt.data)

			node, err := g.Decode(c)
			assert.NoError(t, err)
			assert.True(t, c.Done())
			if diff := cmp.Diff(tt.want, node); diff != "" {
				t.Errorf("node mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFunctionAttributeResolvesMemoryClass(t *testing.T) {
	memories := memclass.New()
	_, err := memories.Decode(cursor.New([]byte{
		0x00, 0x0C, 0x15, 0x03, 0x01, 0x00,
		0x00, 0x00, 0x00, 0x0D,
		'_', '_', 'b', 'a', 'n', 'k', 'e', 'd', '_', 'f', 'u', 'n', 'c',
	}))
	assert.NoError(t, err)

	g := New(names.New(), memories)
	c := cursor.New([]byte{
		0x40, byte(Function), 0x0C, 0x00, 0x00,
		0x41, byte(FunctionAttribute), 0x15, 0x40,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x02,
	})
	_, err = g.Decode(c)
	assert.NoError(t, err)
	node, err := g.Decode(c)
	assert.NoError(t, err)

	assert.NotNil(t, node.Memory)
	assert.Equal(t, "__banked_func", node.Memory.Name)
	assert.Equal(t, [2]uint32{1, 2}, node.Attribute)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		target error
	}{
		{"unknown sub tag", []byte{0x40, 0x77}, decodeerr.ErrUnknownSubTag},
		{"unregistered reference", []byte{0x40, byte(Pointer), 0x41}, decodeerr.ErrLookup},
		{"truncated body", []byte{0x40, byte(Array), 0x01, 0x00}, decodeerr.ErrOverrun},
		{"unregistered name", []byte{0x40, byte(Typedef), 0x01, 0x00, 0x00, 0x00, 0x07}, decodeerr.ErrLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newGraph(t).Decode(cursor.New(tt.data))
			assert.True(t, errors.Is(err, tt.target))
		})
	}
}

func TestDecodeUnknownSubTagOffset(t *testing.T) {
	_, err := newGraph(t).Decode(cursor.New([]byte{0x80, 0x01, 0x77}))

	var formatErr *decodeerr.FormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Offset)
	assert.Equal(t, 0x77, formatErr.Tag)
}

func TestDecodeDuplicate(t *testing.T) {
	g := newGraph(t)
	record := []byte{0x40, byte(Pointer), 0x01}

	_, err := g.Decode(cursor.New(record))
	assert.NoError(t, err)
	_, err = g.Decode(cursor.New(record))
	assert.True(t, errors.Is(err, decodeerr.ErrDuplicate))
}
