// Package cursor implements a positioned reader over an immutable archive buffer.
//
// All fixed width integers are big-endian. Offsets reported by a cursor are always
// absolute offsets into the underlying buffer, also for bounded sub cursors, so that
// errors point at the real location in the input file.
package cursor

import (
	"encoding/binary"

	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

// Dynamic index encoding constants.
const (
	dynamicDataBits     = 7
	dynamicDataMask     = 1<<dynamicDataBits - 1 // 0x7f
	dynamicContinuation = 0x80
	dynamicMaxBytes     = 5
)

// Cursor reads data of a byte buffer between the current position and an end bound.
type Cursor struct {
	data []byte
	pos  int
	end  int
}

// New returns a cursor over the whole buffer.
func New(data []byte) *Cursor {
	return &Cursor{data: data, end: len(data)}
}

// Offset returns the absolute read position.
func (c *Cursor) Offset() int { return c.pos }

// End returns the absolute end bound of the cursor.
func (c *Cursor) End() int { return c.end }

// Remaining returns the number of bytes left to read.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// Done returns whether all bytes of the cursor have been consumed.
func (c *Cursor) Done() bool { return c.pos >= c.end }

// Sub carves a bounded cursor over exactly the next n bytes and advances this
// cursor past them. Reads past the end of the returned cursor fail with an overrun.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if err := c.ensure(0, n); err != nil {
		return nil, err
	}
	sub := &Cursor{
		data: c.data,
		pos:  c.pos,
		end:  c.pos + n,
	}
	c.pos += n
	return sub, nil
}

// U8 reads a byte.
func (c *Cursor) U8() (uint8, error) {
	if err := c.ensure(0, 1); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// U16 reads a big-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	if err := c.ensure(0, 2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// U32 reads a big-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	if err := c.ensure(0, 4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// Bytes reads n bytes into a new slice.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.ensure(0, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.data[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// Skip advances the cursor by n reserved bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.ensure(0, n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// String8 reads a string prefixed by a one byte length.
func (c *Cursor) String8() (string, error) {
	length, err := c.U8()
	if err != nil {
		return "", err
	}
	return c.StringN(int(length))
}

// StringN reads a string of exactly n bytes.
func (c *Cursor) StringN(n int) (string, error) {
	if err := c.ensure(0, n); err != nil {
		return "", err
	}
	s := string(c.data[c.pos : c.pos+n])
	c.pos += n
	return s, nil
}

// PeekU8 returns the next byte without consuming it.
func (c *Cursor) PeekU8() (uint8, error) {
	return c.PeekU8At(0)
}

// PeekU8At returns the byte k positions ahead without consuming anything.
func (c *Cursor) PeekU8At(k int) (uint8, error) {
	if err := c.ensure(k, 1); err != nil {
		return 0, err
	}
	return c.data[c.pos+k], nil
}

// Dynamic reads a continuation bit encoded variable length integer.
func (c *Cursor) Dynamic() (uint32, error) {
	value, size, err := c.dynamicAt(0)
	if err != nil {
		return 0, err
	}
	c.pos += size
	return value, nil
}

// PeekDynamic decodes the next dynamic index without consuming it.
func (c *Cursor) PeekDynamic() (uint32, error) {
	return c.PeekDynamicAt(0)
}

// PeekDynamicAt decodes the dynamic index starting k bytes ahead without
// consuming anything.
func (c *Cursor) PeekDynamicAt(k int) (uint32, error) {
	value, _, err := c.dynamicAt(k)
	return value, err
}

// dynamicAt decodes a dynamic index starting k bytes ahead and returns the value
// and the encoded size. Each byte contributes its low 7 bits, the first byte being
// the least significant group; a set top bit means another byte follows.
func (c *Cursor) dynamicAt(k int) (uint32, int, error) {
	var value uint64
	for i := 0; i < dynamicMaxBytes; i++ {
		b, err := c.PeekU8At(k + i)
		if err != nil {
			return 0, 0, err
		}
		value |= uint64(b&dynamicDataMask) << (dynamicDataBits * i)
		if b&dynamicContinuation == 0 {
			if value > 0xFFFFFFFF {
				break
			}
			return uint32(value), i + 1, nil
		}
	}
	return 0, 0, decodeerr.Format(c.pos+k, decodeerr.ErrOverflow, "dynamic index exceeds 32 bits")
}

// ensure checks that n bytes starting k bytes ahead are within bounds.
func (c *Cursor) ensure(k, n int) error {
	if n < 0 || k < 0 || c.pos+k+n > c.end {
		return decodeerr.Format(c.pos+k, decodeerr.ErrOverrun, "need %d bytes, %d available", n, c.end-c.pos-k)
	}
	return nil
}
