package cpu

import "github.com/corevm/m6502/memory"

// AddressingMode identifies one of the 13 ways a 6502 opcode can locate
// its operand.
type AddressingMode int

const (
	ModeImplicit         AddressingMode = iota // No operand bytes; e.g. INX, CLC.
	ModeAccumulator                            // Operates on A directly; e.g. ASL A.
	ModeImmediate                              // #i - the operand byte is the value itself.
	ModeZeroPage                               // d - 1 byte operand is the low address byte.
	ModeZeroPageX                              // d,x - (d+X) & 0xFF.
	ModeZeroPageY                              // d,y - (d+Y) & 0xFF. LDX/STX only.
	ModeAbsolute                                // a - 2 byte little-endian address.
	ModeAbsoluteX                               // a,x - abs+X, wraps at 16 bits.
	ModeAbsoluteY                               // a,y - abs+Y, wraps at 16 bits.
	ModeIndirect                                // (a) - JMP only; address at abs.
	ModeIndexedIndirectX                        // (d,x) - pointer (d+X)&0xFF in zero page.
	ModeIndirectIndexedY                        // (d),y - pointer d in zero page, then +Y.
	ModeRelative                                 // *+r - signed 1 byte branch offset.
)

// OperandBytes reports how many bytes after the opcode byte this mode
// consumes, which is exactly the information both Step and
// disassemble.Step need to know how far to advance.
func OperandBytes(m AddressingMode) int {
	switch m {
	case ModeImplicit, ModeAccumulator:
		return 0
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect:
		return 2
	default:
		return 1
	}
}

// effectiveAddress resolves the given addressing mode to a 16 bit
// address, reading through bus for the indirect modes. It also reports
// whether resolving the address crossed a 256 byte page boundary, which
// costs an extra cycle on the modes spec.md §4.2 calls out. Callers
// using ModeImmediate, ModeAccumulator, or ModeImplicit should not call
// this; there is no effective address to compute (arg1 is the value, or
// there is no operand at all).
func (c *Chip) effectiveAddress(bus memory.Bus, mode AddressingMode, arg1, arg2 uint8) (addr uint16, pageCrossed bool) {
	switch mode {
	case ModeZeroPage:
		addr = uint16(arg1)
	case ModeZeroPageX:
		addr = uint16(uint8(arg1 + c.X))
	case ModeZeroPageY:
		addr = uint16(uint8(arg1 + c.Y))
	case ModeAbsolute:
		addr = uint16(arg1) | uint16(arg2)<<8
	case ModeAbsoluteX:
		base := uint16(arg1) | uint16(arg2)<<8
		addr = base + uint16(c.X)
		pageCrossed = base&0xFF00 != addr&0xFF00
	case ModeAbsoluteY:
		base := uint16(arg1) | uint16(arg2)<<8
		addr = base + uint16(c.Y)
		pageCrossed = base&0xFF00 != addr&0xFF00
	case ModeIndirect:
		ptr := uint16(arg1) | uint16(arg2)<<8
		// Reproduces the NMOS indirect-JMP page-wrap bug: the high byte is
		// read from (ptr & 0xFF00) | ((ptr+1) & 0xFF), not from ptr+1 when
		// that would cross into the next page.
		hiAddr := ptr&0xFF00 | uint16(uint8(ptr)+1)
		lo := bus.Read(ptr)
		hi := bus.Read(hiAddr)
		addr = uint16(lo) | uint16(hi)<<8
	case ModeIndexedIndirectX:
		ptr := uint8(arg1 + c.X)
		lo := bus.Read(uint16(ptr))
		hi := bus.Read(uint16(ptr + 1))
		addr = uint16(lo) | uint16(hi)<<8
	case ModeIndirectIndexedY:
		lo := bus.Read(uint16(arg1))
		hi := bus.Read(uint16(uint8(arg1 + 1)))
		base := uint16(lo) | uint16(hi)<<8
		addr = base + uint16(c.Y)
		pageCrossed = base&0xFF00 != addr&0xFF00
	case ModeRelative:
		addr = c.PC + uint16(int16(int8(arg1)))
		pageCrossed = c.PC&0xFF00 != addr&0xFF00
	}
	return addr, pageCrossed
}
