package i8051

import "github.com/retroenv/ubrofdecode/internal/cursor"

// operandReader produces the next operand of an instruction.
type operandReader func(d *Decoder, c *cursor.Cursor) (Operand, error)

func immediate(d *Decoder, c *cursor.Cursor) (Operand, error) { return d.value(c, Immediate) }
func direct(d *Decoder, c *cursor.Cursor) (Operand, error)    { return d.value(c, Direct) }
func bit(d *Decoder, c *cursor.Cursor) (Operand, error)       { return d.value(c, Bit) }
func notBit(d *Decoder, c *cursor.Cursor) (Operand, error)    { return d.value(c, InvertedBit) }
func offset(d *Decoder, c *cursor.Cursor) (Operand, error)    { return d.relative(c) }

func fixed(operand Operand) operandReader {
	return func(*Decoder, *cursor.Cursor) (Operand, error) {
		return operand, nil
	}
}

func reg(op byte) operandReader { return fixed(register(op)) }
func ind(op byte) operandReader { return fixed(indirect(op)) }

// read runs the readers in stream order.
func (d *Decoder) read(c *cursor.Cursor, readers ...operandReader) ([]Operand, error) {
	operands := make([]Operand, 0, len(readers))
	for _, reader := range readers {
		operand, err := reader(d, c)
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return operands, nil
}

func noOperands(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c)
}

func accumulatorOperand(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c, fixed(regA))
}

func abOperand(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c, fixed(regAB))
}

func directOperand(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c, direct)
}

func branchOperands(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c, offset)
}

func bitBranchOperands(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c, bit, offset)
}

func jmpOperands(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	return d.read(c, fixed(atAPlusD))
}

func addr11Operands(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	operand, err := d.address(c, Addr11)
	if err != nil {
		return nil, err
	}
	return []Operand{operand}, nil
}

func addr16Operands(d *Decoder, c *cursor.Cursor, _ byte) ([]Operand, error) {
	operand, err := d.address(c, Addr16)
	if err != nil {
		return nil, err
	}
	return []Operand{operand}, nil
}

// arithmetic decodes the shared accumulator forms of the arithmetic and logic
// rows: base+4 immediate, base+5 direct, base+6/7 indirect, base+8..F register.
func arithmetic(d *Decoder, c *cursor.Cursor, op, base byte) ([]Operand, error) {
	switch {
	case op == base|0x04:
		return d.read(c, fixed(regA), immediate)
	case op == base|0x05:
		return d.read(c, fixed(regA), direct)
	case op&0xFE == base|0x06:
		return d.read(c, fixed(regA), ind(op))
	case op&0xF8 == base|0x08:
		return d.read(c, fixed(regA), reg(op))
	default:
		return nil, nil
	}
}

func addOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	return arithmetic(d, c, op, 0x20)
}

func addcOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	return arithmetic(d, c, op, 0x30)
}

func subbOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	return arithmetic(d, c, op, 0x90)
}

func orlOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0x42:
		return d.read(c, direct, fixed(regA))
	case 0x43:
		return d.read(c, direct, immediate)
	case 0x72:
		return d.read(c, fixed(regC), bit)
	case 0xA0:
		return d.read(c, fixed(regC), notBit)
	default:
		return arithmetic(d, c, op, 0x40)
	}
}

func anlOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0x52:
		return d.read(c, direct, fixed(regA))
	case 0x53:
		return d.read(c, direct, immediate)
	case 0x82:
		return d.read(c, fixed(regC), bit)
	case 0xB0:
		return d.read(c, fixed(regC), notBit)
	default:
		return arithmetic(d, c, op, 0x50)
	}
}

func xrlOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0x62:
		return d.read(c, direct, fixed(regA))
	case 0x63:
		return d.read(c, direct, immediate)
	default:
		return arithmetic(d, c, op, 0x60)
	}
}

func cjneOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op&0xFE == 0xB6:
		return d.read(c, ind(op), immediate, offset)
	case op == 0xB4:
		return d.read(c, fixed(regA), immediate, offset)
	case op == 0xB5:
		return d.read(c, fixed(regA), direct, offset)
	case op&0xF8 == 0xB8:
		return d.read(c, reg(op), immediate, offset)
	default:
		return nil, nil
	}
}

func clrOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0xE4:
		return d.read(c, fixed(regA))
	case 0xC2:
		return d.read(c, bit)
	case 0xC3:
		return d.read(c, fixed(regC))
	default:
		return nil, nil
	}
}

func cplOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0xF4:
		return d.read(c, fixed(regA))
	case 0xB2:
		return d.read(c, bit)
	case 0xB3:
		return d.read(c, fixed(regC))
	default:
		return nil, nil
	}
}

func setbOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0xD2:
		return d.read(c, bit)
	case 0xD3:
		return d.read(c, fixed(regC))
	default:
		return nil, nil
	}
}

func decOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op&0xFE == 0x16:
		return d.read(c, ind(op))
	case op == 0x14:
		return d.read(c, fixed(regA))
	case op == 0x15:
		return d.read(c, direct)
	case op&0xF8 == 0x18:
		return d.read(c, reg(op))
	default:
		return nil, nil
	}
}

func incOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op&0xFE == 0x06:
		return d.read(c, ind(op))
	case op == 0x04:
		return d.read(c, fixed(regA))
	case op == 0x05:
		return d.read(c, direct)
	case op == 0xA3:
		return d.read(c, fixed(regDPTR))
	case op&0xF8 == 0x08:
		return d.read(c, reg(op))
	default:
		return nil, nil
	}
}

func djnzOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op == 0xD5:
		return d.read(c, direct, offset)
	case op&0xF8 == 0xD8:
		return d.read(c, reg(op), offset)
	default:
		return nil, nil
	}
}

func movOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op&0xFE == 0x76:
		return d.read(c, ind(op), immediate)
	case op&0xFE == 0xF6:
		return d.read(c, ind(op), fixed(regA))
	case op&0xFE == 0xA6:
		return d.read(c, ind(op), direct)
	case op == 0x74:
		return d.read(c, fixed(regA), immediate)
	case op&0xFE == 0xE6:
		return d.read(c, fixed(regA), ind(op))
	case op == 0xE5:
		return d.read(c, fixed(regA), direct)
	case op&0xF8 == 0xE8:
		return d.read(c, fixed(regA), reg(op))
	case op == 0x92:
		return d.read(c, bit, fixed(regC))
	case op == 0xA2:
		return d.read(c, fixed(regC), bit)
	case op == 0x85:
		// the source is stored first
		operands, err := d.read(c, direct, direct)
		if err != nil {
			return nil, err
		}
		operands[0], operands[1] = operands[1], operands[0]
		return operands, nil
	case op == 0x75:
		return d.read(c, direct, immediate)
	case op&0xFE == 0x86:
		return d.read(c, direct, ind(op))
	case op == 0xF5:
		return d.read(c, direct, fixed(regA))
	case op&0xF8 == 0x88:
		return d.read(c, direct, reg(op))
	case op == 0x90:
		return d.read(c, fixed(regDPTR), immediate)
	case op&0xF8 == 0x78:
		return d.read(c, reg(op), immediate)
	case op&0xF8 == 0xF8:
		return d.read(c, reg(op), fixed(regA))
	case op&0xF8 == 0xA8:
		return d.read(c, reg(op), direct)
	default:
		return nil, nil
	}
}

func movcOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch op {
	case 0x93:
		return d.read(c, fixed(regA), fixed(atAPlusD))
	case 0x83:
		return d.read(c, fixed(regA), fixed(atAPlusP))
	default:
		return nil, nil
	}
}

func movxOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op == 0xF0:
		return d.read(c, fixed(atDPTR), fixed(regA))
	case op&0xFE == 0xF2:
		return d.read(c, ind(op), fixed(regA))
	case op == 0xE0:
		return d.read(c, fixed(regA), fixed(atDPTR))
	case op&0xFE == 0xE2:
		return d.read(c, fixed(regA), ind(op))
	default:
		return nil, nil
	}
}

func xchOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	switch {
	case op&0xFE == 0xC6:
		return d.read(c, fixed(regA), ind(op))
	case op == 0xC5:
		return d.read(c, fixed(regA), direct)
	case op&0xF8 == 0xC8:
		return d.read(c, fixed(regA), reg(op))
	default:
		return nil, nil
	}
}

func xchdOperands(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error) {
	return d.read(c, fixed(regA), ind(op))
}
