// Package i8051 decodes 8051 machine instructions embedded in an archive.
//
// # Encoding
//
// Instructions are stored as an opcode byte followed by operand records. Operand
// values are not plain bytes as in a binary image but tagged records:
//   - a literal: a marker byte (0x36 for 8 bit, 0x37 for 16 bit values) followed
//     by the big-endian value
//   - a symbol reference: a marker byte (0x5E relocatable, 0x5D external)
//     followed by a dynamic symbol index and 4 reserved bytes
//   - a segment relative offset: a marker byte, a dynamic segment index and a
//     32 bit displacement, used by relative branches to unresolved targets
//
// Which operand form is present is decided by peeking only, so a failed probe
// never consumes input.
//
// # Opcode table
//
// The high nibble of the opcode selects a row of mnemonics. The low nibble
// indexes into the row; rows that contain fewer entries than 16 repeat their
// last entry for all remaining low nibbles. The mnemonic then selects the
// operand shape from the exact opcode value or a masked pattern of it. An opcode
// whose shape is not known results in an instruction without operands.
package i8051
