package segments

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want *Segment
	}{
		{
			name: "normal code segment",
			data: []byte{0x80, 0x00, 0x21, 0x04, 'C', 'O', 'D', 'E'},
			want: &Segment{Index: 0, Policy: Normal, Class: Code, Name: "CODE"},
		},
		{
			name: "reorder xdata segment",
			data: []byte{0xA0, 0x03, 0x23, 0x05, 'X', 'D', 'A', 'T', 'A'},
			want: &Segment{Index: 3, Policy: Reorder, Class: XData, Name: "XDATA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New()
			c := cursor.New(tt.data)

			seg, err := tbl.Decode(c)
			assert.NoError(t, err)
			assert.True(t, c.Done())
			if diff := cmp.Diff(tt.want, seg); diff != "" {
				t.Errorf("segment mismatch (-want +got):\n%s", diff)
			}

			got, ok := tbl.Get(tt.want.Index)
			assert.True(t, ok)
			assert.Equal(t, seg, got)

			byName, ok := tbl.ByName(tt.want.Name)
			assert.True(t, ok)
			assert.Equal(t, seg, byName)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		offset int
		tag    int
	}{
		{"policy without marker", []byte{0x00, 0x00, 0x21, 0x00}, 0, 0x00},
		{"unknown policy", []byte{0x90, 0x00, 0x21, 0x00}, 0, 0x90},
		{"unknown class", []byte{0x80, 0x00, 0x25, 0x00}, 2, 0x25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Decode(cursor.New(tt.data))

			var formatErr *decodeerr.FormatError
			assert.True(t, errors.As(err, &formatErr))
			assert.Equal(t, tt.offset, formatErr.Offset)
			assert.Equal(t, tt.tag, formatErr.Tag)
			assert.True(t, errors.Is(err, decodeerr.ErrUnknownSubTag))
		})
	}
}

func TestDecodeDuplicate(t *testing.T) {
	tbl := New()
	data := []byte{0x80, 0x01, 0x22, 0x01, 'D'}

	_, err := tbl.Decode(cursor.New(data))
	assert.NoError(t, err)
	_, err = tbl.Decode(cursor.New(data))
	assert.True(t, errors.Is(err, decodeerr.ErrDuplicate))
	assert.Equal(t, 1, tbl.Len())
}

func TestStrings(t *testing.T) {
	seg := &Segment{Index: 0x0A, Policy: Reorder, Class: IData, Name: "ISTACK"}
	assert.Equal(t, "0A: ISTACK IDATA SPA=REORDER", seg.String())
	assert.Equal(t, "class(0x30)", Class(0x30).String())
}
