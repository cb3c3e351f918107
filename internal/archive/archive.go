// Package archive decodes a complete library or object archive.
//
// An archive is a stream of tagged sections terminated by the end tag. Sections
// are decoded in a single forward pass; core sections populate the registries of
// the decode Context that later sections reference by index.
package archive

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/ubrofdecode/internal/arch/i8051"
	"github.com/retroenv/ubrofdecode/internal/callframe"
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/memclass"
	"github.com/retroenv/ubrofdecode/internal/names"
	"github.com/retroenv/ubrofdecode/internal/segments"
	"github.com/retroenv/ubrofdecode/internal/symbols"
	"github.com/retroenv/ubrofdecode/internal/types"
)

// Context owns all registries of one decode run.
type Context struct {
	Names      *names.Table
	Memories   *memclass.Table
	Segments   *segments.Table
	Types      *types.Graph
	Symbols    *symbols.Table
	CallFrames *callframe.Table
	KeyValues  map[string]string
}

// NewContext returns a context with empty registries.
func NewContext() *Context {
	ctx := &Context{
		Names:     names.New(),
		Memories:  memclass.New(),
		Segments:  segments.New(),
		KeyValues: make(map[string]string),
	}
	ctx.Types = types.New(ctx.Names, ctx.Memories)
	ctx.Symbols = symbols.New(ctx.Names, ctx.Types)
	ctx.CallFrames = callframe.New(ctx.Segments)
	return ctx
}

// Instructions returns an instruction decoder that resolves operands against
// the registries of the context.
func (ctx *Context) Instructions() *i8051.Decoder {
	return i8051.New(ctx.Symbols, ctx.Segments)
}

// Section is a decoded top level record.
type Section struct {
	Tag    byte
	Offset int // absolute offset of the tag byte
	Record any
}

// Archive is the result of a decode run.
type Archive struct {
	Sections []Section
	Context  *Context
}

// Decoder decodes archives.
type Decoder struct {
	logger *log.Logger
}

// New returns a new archive decoder.
func New(logger *log.Logger) *Decoder {
	return &Decoder{
		logger: logger,
	}
}

// Decode decodes all sections of the archive data. Every call uses a fresh
// context. On failure the sections decoded so far are returned together with
// the error for diagnostics.
func (d *Decoder) Decode(data []byte) (*Archive, error) {
	ar := &Archive{
		Context: NewContext(),
	}
	c := cursor.New(data)

	for {
		offset := c.Offset()
		tag, err := c.U8()
		if err != nil {
			return ar, fmt.Errorf("reading section tag: %w", err)
		}
		if tag == tagEnd {
			d.logger.Debug("Reached end of archive", log.Int("offset", offset))
			return ar, nil
		}

		record, err := decodeSection(ar.Context, c, tag, offset)
		if err != nil {
			return ar, fmt.Errorf("decoding section 0x%02X at offset 0x%X: %w", tag, offset, err)
		}

		d.logger.Debug("Decoded section",
			log.Hex("tag", tag),
			log.Int("offset", offset),
			log.String("type", fmt.Sprintf("%T", record)))
		ar.Sections = append(ar.Sections, Section{
			Tag:    tag,
			Offset: offset,
			Record: record,
		})
	}
}

// Disassemble decodes a buffer of machine code instructions with operand records.
// Operands are resolved against the registries of the archive.
func (a *Archive) Disassemble(code []byte) ([]*i8051.Instruction, error) {
	return a.Context.Instructions().DecodeAll(cursor.New(code))
}
