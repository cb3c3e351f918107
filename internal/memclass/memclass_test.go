package memclass

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

func xdataRecord(index byte) []byte {
	return []byte{
		0x00, 0x10, // size
		index,
		0x02, // pointer size
		0x01, // unsigned char
		0x80, // flags
		0x00, 0x00, 0x00, 0x07,
		'_', '_', 'x', 'd', 'a', 't', 'a',
	}
}

func TestDecode(t *testing.T) {
	tbl := New()
	c := cursor.New(xdataRecord(0x06))

	class, err := tbl.Decode(c)
	assert.NoError(t, err)
	assert.True(t, c.Done())

	assert.Equal(t, uint8(0x06), class.Index)
	assert.Equal(t, uint8(2), class.PointerSize)
	assert.Equal(t, "unsigned char", class.Kind.String())
	assert.Equal(t, uint8(0x80), class.Flags)
	assert.Equal(t, "__xdata", class.Name)

	got, ok := tbl.Get(0x06)
	assert.True(t, ok)
	assert.Equal(t, class, got)
	assert.Equal(t, 1, tbl.Len())

	_, ok = tbl.Get(0x07)
	assert.False(t, ok)
}

func TestDecodeDuplicate(t *testing.T) {
	tbl := New()
	_, err := tbl.Decode(cursor.New(xdataRecord(1)))
	assert.NoError(t, err)

	_, err = tbl.Decode(cursor.New(xdataRecord(1)))
	assert.True(t, errors.Is(err, decodeerr.ErrDuplicate))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "signed long", Kind(0x08).String())
	assert.Equal(t, "kind(0x42)", Kind(0x42).String())
}
