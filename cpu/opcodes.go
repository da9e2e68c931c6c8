package cpu

// OpcodeEntry is one row of the decode table: the mnemonic, the
// addressing mode used to resolve its operand, and the base cycle cost
// (before any page-crossing or branch-taken penalty). A single table
// drives both the executor (execute.go) and the disassembler
// (disassemble package), replacing the parallel opcode-keyed switches
// the original source carried for each.
type OpcodeEntry struct {
	Mnemonic string
	Mode     AddressingMode
	Cycles   int
}

// OpcodeTable maps each of the 256 possible opcode bytes to its decode
// entry. Bytes with no entry (zero value, Mnemonic=="") are one of the
// ~105 undocumented NMOS opcodes; Step returns UnknownOpcode for them
// and disassemble.Step renders them as "<NN>", per spec.md's non-goal of
// undocumented opcode support.
var OpcodeTable = [256]OpcodeEntry{
	0x00: {"BRK", ModeImplicit, 7},
	0x01: {"ORA", ModeIndexedIndirectX, 6},
	0x05: {"ORA", ModeZeroPage, 3},
	0x06: {"ASL", ModeZeroPage, 5},
	0x08: {"PHP", ModeImplicit, 3},
	0x09: {"ORA", ModeImmediate, 2},
	0x0A: {"ASL", ModeAccumulator, 2},
	0x0D: {"ORA", ModeAbsolute, 4},
	0x0E: {"ASL", ModeAbsolute, 6},
	0x10: {"BPL", ModeRelative, 2},
	0x11: {"ORA", ModeIndirectIndexedY, 5},
	0x15: {"ORA", ModeZeroPageX, 4},
	0x16: {"ASL", ModeZeroPageX, 6},
	0x18: {"CLC", ModeImplicit, 2},
	0x19: {"ORA", ModeAbsoluteY, 4},
	0x1D: {"ORA", ModeAbsoluteX, 4},
	0x1E: {"ASL", ModeAbsoluteX, 7},

	0x20: {"JSR", ModeAbsolute, 6},
	0x21: {"AND", ModeIndexedIndirectX, 6},
	0x24: {"BIT", ModeZeroPage, 3},
	0x25: {"AND", ModeZeroPage, 3},
	0x26: {"ROL", ModeZeroPage, 5},
	0x28: {"PLP", ModeImplicit, 4},
	0x29: {"AND", ModeImmediate, 2},
	0x2A: {"ROL", ModeAccumulator, 2},
	0x2C: {"BIT", ModeAbsolute, 4},
	0x2D: {"AND", ModeAbsolute, 4},
	0x2E: {"ROL", ModeAbsolute, 6},
	0x30: {"BMI", ModeRelative, 2},
	0x31: {"AND", ModeIndirectIndexedY, 5},
	0x35: {"AND", ModeZeroPageX, 4},
	0x36: {"ROL", ModeZeroPageX, 6},
	0x38: {"SEC", ModeImplicit, 2},
	0x39: {"AND", ModeAbsoluteY, 4},
	0x3D: {"AND", ModeAbsoluteX, 4},
	0x3E: {"ROL", ModeAbsoluteX, 7},

	0x40: {"RTI", ModeImplicit, 6},
	0x41: {"EOR", ModeIndexedIndirectX, 6},
	0x45: {"EOR", ModeZeroPage, 3},
	0x46: {"LSR", ModeZeroPage, 5},
	0x48: {"PHA", ModeImplicit, 3},
	0x49: {"EOR", ModeImmediate, 2},
	0x4A: {"LSR", ModeAccumulator, 2},
	0x4C: {"JMP", ModeAbsolute, 3},
	0x4D: {"EOR", ModeAbsolute, 4},
	0x4E: {"LSR", ModeAbsolute, 6},
	0x50: {"BVC", ModeRelative, 2},
	0x51: {"EOR", ModeIndirectIndexedY, 5},
	0x55: {"EOR", ModeZeroPageX, 4},
	0x56: {"LSR", ModeZeroPageX, 6},
	0x58: {"CLI", ModeImplicit, 2},
	0x59: {"EOR", ModeAbsoluteY, 4},
	0x5D: {"EOR", ModeAbsoluteX, 4},
	0x5E: {"LSR", ModeAbsoluteX, 7},

	0x60: {"RTS", ModeImplicit, 6},
	0x61: {"ADC", ModeIndexedIndirectX, 6},
	0x65: {"ADC", ModeZeroPage, 3},
	0x66: {"ROR", ModeZeroPage, 5},
	0x68: {"PLA", ModeImplicit, 4},
	0x69: {"ADC", ModeImmediate, 2},
	0x6A: {"ROR", ModeAccumulator, 2},
	0x6C: {"JMP", ModeIndirect, 5},
	0x6D: {"ADC", ModeAbsolute, 4},
	0x6E: {"ROR", ModeAbsolute, 6},
	0x70: {"BVS", ModeRelative, 2},
	0x71: {"ADC", ModeIndirectIndexedY, 5},
	0x75: {"ADC", ModeZeroPageX, 4},
	0x76: {"ROR", ModeZeroPageX, 6},
	0x78: {"SEI", ModeImplicit, 2},
	0x79: {"ADC", ModeAbsoluteY, 4},
	0x7D: {"ADC", ModeAbsoluteX, 4},
	0x7E: {"ROR", ModeAbsoluteX, 7},

	0x81: {"STA", ModeIndexedIndirectX, 6},
	0x84: {"STY", ModeZeroPage, 3},
	0x85: {"STA", ModeZeroPage, 3},
	0x86: {"STX", ModeZeroPage, 3},
	0x88: {"DEY", ModeImplicit, 2},
	0x8A: {"TXA", ModeImplicit, 2},
	0x8C: {"STY", ModeAbsolute, 4},
	0x8D: {"STA", ModeAbsolute, 4},
	0x8E: {"STX", ModeAbsolute, 4},
	0x90: {"BCC", ModeRelative, 2},
	0x91: {"STA", ModeIndirectIndexedY, 6},
	0x94: {"STY", ModeZeroPageX, 4},
	0x95: {"STA", ModeZeroPageX, 4},
	0x96: {"STX", ModeZeroPageY, 4},
	0x98: {"TYA", ModeImplicit, 2},
	0x99: {"STA", ModeAbsoluteY, 5},
	0x9A: {"TXS", ModeImplicit, 2},
	0x9D: {"STA", ModeAbsoluteX, 5},

	0xA0: {"LDY", ModeImmediate, 2},
	0xA1: {"LDA", ModeIndexedIndirectX, 6},
	0xA2: {"LDX", ModeImmediate, 2},
	0xA4: {"LDY", ModeZeroPage, 3},
	0xA5: {"LDA", ModeZeroPage, 3},
	0xA6: {"LDX", ModeZeroPage, 3},
	0xA8: {"TAY", ModeImplicit, 2},
	0xA9: {"LDA", ModeImmediate, 2},
	0xAA: {"TAX", ModeImplicit, 2},
	0xAC: {"LDY", ModeAbsolute, 4},
	0xAD: {"LDA", ModeAbsolute, 4},
	0xAE: {"LDX", ModeAbsolute, 4},
	0xB0: {"BCS", ModeRelative, 2},
	0xB1: {"LDA", ModeIndirectIndexedY, 5},
	0xB4: {"LDY", ModeZeroPageX, 4},
	0xB5: {"LDA", ModeZeroPageX, 4},
	0xB6: {"LDX", ModeZeroPageY, 4},
	0xB8: {"CLV", ModeImplicit, 2},
	0xB9: {"LDA", ModeAbsoluteY, 4},
	0xBA: {"TSX", ModeImplicit, 2},
	0xBC: {"LDY", ModeAbsoluteX, 4},
	0xBD: {"LDA", ModeAbsoluteX, 4},
	0xBE: {"LDX", ModeAbsoluteY, 4},

	0xC0: {"CPY", ModeImmediate, 2},
	0xC1: {"CMP", ModeIndexedIndirectX, 6},
	0xC4: {"CPY", ModeZeroPage, 3},
	0xC5: {"CMP", ModeZeroPage, 3},
	0xC6: {"DEC", ModeZeroPage, 5},
	0xC8: {"INY", ModeImplicit, 2},
	0xC9: {"CMP", ModeImmediate, 2},
	0xCA: {"DEX", ModeImplicit, 2},
	0xCC: {"CPY", ModeAbsolute, 4},
	0xCD: {"CMP", ModeAbsolute, 4},
	0xCE: {"DEC", ModeAbsolute, 6},
	0xD0: {"BNE", ModeRelative, 2},
	0xD1: {"CMP", ModeIndirectIndexedY, 5},
	0xD5: {"CMP", ModeZeroPageX, 4},
	0xD6: {"DEC", ModeZeroPageX, 6},
	0xD8: {"CLD", ModeImplicit, 2},
	0xD9: {"CMP", ModeAbsoluteY, 4},
	0xDD: {"CMP", ModeAbsoluteX, 4},
	0xDE: {"DEC", ModeAbsoluteX, 7},

	0xE0: {"CPX", ModeImmediate, 2},
	0xE1: {"SBC", ModeIndexedIndirectX, 6},
	0xE4: {"CPX", ModeZeroPage, 3},
	0xE5: {"SBC", ModeZeroPage, 3},
	0xE6: {"INC", ModeZeroPage, 5},
	0xE8: {"INX", ModeImplicit, 2},
	0xE9: {"SBC", ModeImmediate, 2},
	0xEA: {"NOP", ModeImplicit, 2},
	0xEC: {"CPX", ModeAbsolute, 4},
	0xED: {"SBC", ModeAbsolute, 4},
	0xEE: {"INC", ModeAbsolute, 6},
	0xF0: {"BEQ", ModeRelative, 2},
	0xF1: {"SBC", ModeIndirectIndexedY, 5},
	0xF5: {"SBC", ModeZeroPageX, 4},
	0xF6: {"INC", ModeZeroPageX, 6},
	0xF8: {"SED", ModeImplicit, 2},
	0xF9: {"SBC", ModeAbsoluteY, 4},
	0xFD: {"SBC", ModeAbsoluteX, 4},
	0xFE: {"INC", ModeAbsoluteX, 7},
}

// pageCrossPenalized reports whether mnemonic/mode pairs with a page
// crossing during address resolution cost an extra cycle. Per spec.md
// §4.3.1, this applies to the ALU/load group's indexed-absolute and
// indirect-indexed-Y forms but not to their store counterparts or to
// the read-modify-write group, which always pays the worst case cost
// whether or not a page was crossed.
func pageCrossPenalized(mnemonic string, mode AddressingMode) bool {
	switch mode {
	case ModeAbsoluteX, ModeAbsoluteY, ModeIndirectIndexedY:
		switch mnemonic {
		case "STA", "STX", "STY",
			"ASL", "LSR", "ROL", "ROR", "INC", "DEC":
			return false
		default:
			return true
		}
	default:
		return false
	}
}
