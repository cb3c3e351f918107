package archive

import (
	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

// Section tags.
const (
	tagLibrary        = 0x00
	tagAbs8           = 0x36
	tagAbs16          = 0x37
	tagEndRecord      = 0x3F
	tagType           = 0x4A
	tagSegment        = 0x4B
	tagSizeType       = 0x4F
	tagAuxiliary      = 0x53
	tagAuxiliary1     = 0x54
	tagPop8           = 0x5A
	tagPushExt        = 0x5D
	tagPushRel        = 0x5E
	tagPushAbs        = 0x61
	tagPushPcr        = 0x62
	tagMinus          = 0x64
	tagLSR            = 0x6E
	tagCopy           = 0x70
	tagCheck          = 0x73
	tagDeleteTos      = 0x9C
	tagStackError     = 0x9D
	tagPop24          = 0xA4
	tagVersion        = 0xBD
	tagPointerType    = 0xC1
	tagMemoryClass    = 0xC6
	tagOrgRel         = 0xC7
	tagKeyValue       = 0xC9
	tagSourceCallEdge = 0xCB
	tagNameTable      = 0xCD
	tagSymbol         = 0xCE
	tagAttribute      = 0xD3
	tagCallFrame      = 0xD4
	tagAssemblyMode   = 0xDE
	tagEnd            = 0xFF
)

// decodeSection decodes the body of the section with the given tag.
//
//nolint:cyclop,funlen // one case per section tag
func decodeSection(ctx *Context, c *cursor.Cursor, tag byte, offset int) (any, error) {
	switch tag {
	// registries
	case tagNameTable:
		return ctx.Names.Decode(c)
	case tagMemoryClass:
		return ctx.Memories.Decode(c)
	case tagSegment:
		return ctx.Segments.Decode(c)
	case tagType:
		return ctx.Types.Decode(c)
	case tagSymbol:
		return ctx.Symbols.Decode(c)
	case tagSourceCallEdge:
		return ctx.Symbols.DecodeCallEdge(c)
	case tagCallFrame:
		return ctx.CallFrames.Decode(c)

	// peripheral records
	case tagLibrary:
		return decodeLibrary(c)
	case tagVersion:
		return decodeVersion(c)
	case tagAuxiliary:
		return decodeAuxiliary(c)
	case tagAuxiliary1:
		return decodeAuxiliary1(c)
	case tagKeyValue:
		return decodeKeyValue(ctx, c)
	case tagPointerType:
		return decodePointerType(ctx, c)
	case tagSizeType:
		return decodeSizeType(ctx, c)
	case tagAttribute:
		return decodeAttribute(c)
	case tagEndRecord:
		return decodeEndRecord(c)

	// expressions
	case tagAbs8:
		return decodeAbs8(c)
	case tagAbs16:
		return decodeAbs16(c)
	case tagPop8:
		return &Pop8{}, nil
	case tagPushExt:
		return decodePush(ctx, c, true)
	case tagPushRel:
		return decodePush(ctx, c, false)
	case tagPushAbs:
		value, err := c.U32()
		return &PushAbs{Value: value}, err
	case tagPushPcr:
		value, err := c.U32()
		return &PushPcr{Value: value}, err
	case tagMinus:
		return &Minus{}, nil
	case tagDeleteTos:
		return &DeleteTos{}, nil
	case tagPop24:
		return &Pop24{}, nil
	case tagOrgRel:
		return decodeOrgRel(ctx, c)
	case tagAssemblyMode:
		mode, err := c.U8()
		return &AssemblyMode{Mode: mode}, err

	// diagnostics
	case tagStackError:
		message, err := c.String8()
		return &StackError{Message: message}, err
	case tagCheck:
		return decodeCheck(c)
	case tagCopy:
		return &Copy{}, nil
	case tagLSR:
		value, err := c.U32()
		return &LSR{Value: value}, err

	default:
		return nil, decodeerr.FormatTag(offset, tag, decodeerr.ErrUnknownSection, "no decoder registered")
	}
}
