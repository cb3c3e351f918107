// Package decodeerr contains the error types returned by the archive decoder.
//
// The decoder is fail-closed: every failure is either a FormatError, for input that
// does not match the known layout, or an UnimplementedError, for records that are
// recognized but deliberately not decoded yet. Both carry the absolute byte offset
// of the offending record.
package decodeerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors that FormatError values wrap. Use errors.Is to test for them.
var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownSubTag  = errors.New("unknown sub tag")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrLookup         = errors.New("lookup miss")
	ErrOverrun        = errors.New("read past end of data")
	ErrOverflow       = errors.New("dynamic index overflow")
	ErrDuplicate      = errors.New("duplicate index")
	ErrRange          = errors.New("value out of range")
	ErrUnimplemented  = errors.New("not implemented")
)

// FormatError reports input that does not match the known format.
type FormatError struct {
	Offset int    // absolute byte offset in the input
	Tag    int    // offending tag, sub tag or opcode, -1 if not applicable
	Detail string // human readable context
	Err    error  // wrapped sentinel
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("format error at offset ")
	fmt.Fprintf(&b, "0x%X", e.Offset)
	if e.Tag >= 0 {
		fmt.Fprintf(&b, " tag 0x%02X", e.Tag)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped sentinel.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// UnimplementedError reports a record that is recognized but not decoded.
type UnimplementedError struct {
	Offset int
	Tag    int
	What   string
}

// Error implements the error interface.
func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented %s at offset 0x%X tag 0x%02X", e.What, e.Offset, e.Tag)
}

// Unwrap lets errors.Is match ErrUnimplemented.
func (e *UnimplementedError) Unwrap() error {
	return ErrUnimplemented
}

// Format returns a new FormatError without a tag.
func Format(offset int, err error, format string, args ...any) *FormatError {
	return &FormatError{
		Offset: offset,
		Tag:    -1,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// FormatTag returns a new FormatError for the given tag.
func FormatTag(offset int, tag byte, err error, format string, args ...any) *FormatError {
	return &FormatError{
		Offset: offset,
		Tag:    int(tag),
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// Unimplemented returns a new UnimplementedError.
func Unimplemented(offset int, tag byte, what string) *UnimplementedError {
	return &UnimplementedError{
		Offset: offset,
		Tag:    int(tag),
		What:   what,
	}
}
