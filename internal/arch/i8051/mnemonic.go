package i8051

import "github.com/retroenv/ubrofdecode/internal/cursor"

// operandDecoder decodes the operands of a mnemonic for a concrete opcode.
// It returns nil operands for opcodes without known operand shape.
type operandDecoder func(d *Decoder, c *cursor.Cursor, op byte) ([]Operand, error)

// Mnemonic is an 8051 instruction class.
type Mnemonic struct {
	Name string

	operands operandDecoder
}

func (m *Mnemonic) String() string {
	return m.Name
}

// 8051 mnemonics.
var (
	Acall = &Mnemonic{Name: "acall", operands: addr11Operands}
	Add   = &Mnemonic{Name: "add", operands: addOperands}
	Addc  = &Mnemonic{Name: "addc", operands: addcOperands}
	Ajmp  = &Mnemonic{Name: "ajmp", operands: addr11Operands}
	Anl   = &Mnemonic{Name: "anl", operands: anlOperands}
	Cjne  = &Mnemonic{Name: "cjne", operands: cjneOperands}
	Clr   = &Mnemonic{Name: "clr", operands: clrOperands}
	Cpl   = &Mnemonic{Name: "cpl", operands: cplOperands}
	Da    = &Mnemonic{Name: "da", operands: accumulatorOperand}
	Dec   = &Mnemonic{Name: "dec", operands: decOperands}
	Div   = &Mnemonic{Name: "div", operands: abOperand}
	Djnz  = &Mnemonic{Name: "djnz", operands: djnzOperands}
	Inc   = &Mnemonic{Name: "inc", operands: incOperands}
	Jb    = &Mnemonic{Name: "jb", operands: bitBranchOperands}
	Jbc   = &Mnemonic{Name: "jbc", operands: bitBranchOperands}
	Jc    = &Mnemonic{Name: "jc", operands: branchOperands}
	Jmp   = &Mnemonic{Name: "jmp", operands: jmpOperands}
	Jnb   = &Mnemonic{Name: "jnb", operands: bitBranchOperands}
	Jnc   = &Mnemonic{Name: "jnc", operands: branchOperands}
	Jnz   = &Mnemonic{Name: "jnz", operands: branchOperands}
	Jz    = &Mnemonic{Name: "jz", operands: branchOperands}
	Lcall = &Mnemonic{Name: "lcall", operands: addr16Operands}
	Ljmp  = &Mnemonic{Name: "ljmp", operands: addr16Operands}
	Mov   = &Mnemonic{Name: "mov", operands: movOperands}
	Movc  = &Mnemonic{Name: "movc", operands: movcOperands}
	Movx  = &Mnemonic{Name: "movx", operands: movxOperands}
	Mul   = &Mnemonic{Name: "mul", operands: abOperand}
	Nop   = &Mnemonic{Name: "nop", operands: noOperands}
	Orl   = &Mnemonic{Name: "orl", operands: orlOperands}
	Pop   = &Mnemonic{Name: "pop", operands: directOperand}
	Push  = &Mnemonic{Name: "push", operands: directOperand}
	Ret   = &Mnemonic{Name: "ret", operands: noOperands}
	Reti  = &Mnemonic{Name: "reti", operands: noOperands}
	Rl    = &Mnemonic{Name: "rl", operands: accumulatorOperand}
	Rlc   = &Mnemonic{Name: "rlc", operands: accumulatorOperand}
	Rr    = &Mnemonic{Name: "rr", operands: accumulatorOperand}
	Rrc   = &Mnemonic{Name: "rrc", operands: accumulatorOperand}
	Setb  = &Mnemonic{Name: "setb", operands: setbOperands}
	Sjmp  = &Mnemonic{Name: "sjmp", operands: branchOperands}
	Subb  = &Mnemonic{Name: "subb", operands: subbOperands}
	Swap  = &Mnemonic{Name: "swap", operands: accumulatorOperand}
	Xch   = &Mnemonic{Name: "xch", operands: xchOperands}
	Xchd  = &Mnemonic{Name: "xchd", operands: xchdOperands}
	Xrl   = &Mnemonic{Name: "xrl", operands: xrlOperands}

	// Undefined is the reserved opcode 0xA5.
	Undefined = &Mnemonic{Name: "undefined"}
)

// opcodeRows maps the high nibble of an opcode to its row of mnemonics. A low
// nibble beyond the end of a row selects the last entry of the row.
var opcodeRows = [16][]*Mnemonic{
	0x0: {Nop, Ajmp, Ljmp, Rr, Inc},
	0x1: {Jbc, Acall, Lcall, Rrc, Dec},
	0x2: {Jb, Ajmp, Ret, Rl, Add},
	0x3: {Jnb, Acall, Reti, Rlc, Addc},
	0x4: {Jc, Ajmp, Orl},
	0x5: {Jnc, Acall, Anl},
	0x6: {Jz, Ajmp, Xrl},
	0x7: {Jnz, Acall, Orl, Jmp, Mov},
	0x8: {Sjmp, Ajmp, Anl, Movc, Div, Mov},
	0x9: {Mov, Acall, Mov, Movc, Subb},
	0xA: {Orl, Ajmp, Mov, Inc, Mul, Undefined, Mov},
	0xB: {Anl, Acall, Cpl, Cpl, Cjne},
	0xC: {Push, Ajmp, Clr, Clr, Swap, Xch},
	0xD: {Pop, Acall, Setb, Setb, Da, Djnz, Xchd, Xchd, Djnz},
	0xE: {Movx, Ajmp, Movx, Movx, Clr, Mov},
	0xF: {Movx, Acall, Movx, Movx, Cpl, Mov},
}
