package cpu

import "github.com/corevm/m6502/memory"

// execute runs the instruction entry decodes, fetching any operand bytes
// from bus at the current PC first. It returns the cycle count actually
// spent, which includes entry's base cost plus any page-crossing or
// branch-taken penalty.
func (c *Chip) execute(bus memory.Bus, entry OpcodeEntry) (int, error) {
	mode := entry.Mode
	mnemonic := entry.Mnemonic

	var arg1, arg2 uint8
	switch OperandBytes(mode) {
	case 2:
		arg1 = bus.Read(c.PC)
		c.PC++
		arg2 = bus.Read(c.PC)
		c.PC++
	case 1:
		arg1 = bus.Read(c.PC)
		c.PC++
	}

	cycles := entry.Cycles

	switch mnemonic {
	case "BRK":
		c.PC++ // BRK's signature byte; pushed PC points past it.
		c.serviceInterrupt(bus, VectorIRQ, true)
		return cycles, nil

	case "JSR":
		addr, _ := c.effectiveAddress(bus, mode, arg1, arg2)
		ret := c.PC - 1 // JSR pushes the address of its last byte, not the next instruction.
		c.push(bus, uint8(ret>>8))
		c.push(bus, uint8(ret))
		c.PC = addr
		return cycles, nil

	case "RTS":
		lo := c.pop(bus)
		hi := c.pop(bus)
		c.PC = uint16(lo) | uint16(hi)<<8
		c.PC++
		return cycles, nil

	case "RTI":
		p := c.pop(bus)
		lo := c.pop(bus)
		hi := c.pop(bus)
		c.P = (p &^ FlagBreak) | FlagUnused
		c.PC = uint16(lo) | uint16(hi)<<8
		return cycles, nil

	case "JMP":
		addr, _ := c.effectiveAddress(bus, mode, arg1, arg2)
		c.PC = addr
		return cycles, nil

	case "BCC":
		return c.branch(bus, arg1, c.P&FlagCarry == 0), nil
	case "BCS":
		return c.branch(bus, arg1, c.P&FlagCarry != 0), nil
	case "BEQ":
		return c.branch(bus, arg1, c.P&FlagZero != 0), nil
	case "BNE":
		return c.branch(bus, arg1, c.P&FlagZero == 0), nil
	case "BMI":
		return c.branch(bus, arg1, c.P&FlagNegative != 0), nil
	case "BPL":
		return c.branch(bus, arg1, c.P&FlagNegative == 0), nil
	case "BVC":
		return c.branch(bus, arg1, c.P&FlagOverflow == 0), nil
	case "BVS":
		return c.branch(bus, arg1, c.P&FlagOverflow != 0), nil

	case "CLC":
		c.P &^= FlagCarry
		return cycles, nil
	case "SEC":
		c.P |= FlagCarry
		return cycles, nil
	case "CLD":
		c.P &^= FlagDecimal
		return cycles, nil
	case "SED":
		c.P |= FlagDecimal
		return cycles, nil
	case "CLI":
		c.P &^= FlagInterrupt
		return cycles, nil
	case "SEI":
		c.P |= FlagInterrupt
		return cycles, nil
	case "CLV":
		c.P &^= FlagOverflow
		return cycles, nil

	case "PHA":
		c.push(bus, c.A)
		return cycles, nil
	case "PHP":
		c.push(bus, c.P|FlagUnused|FlagBreak)
		return cycles, nil
	case "PLA":
		c.A = c.pop(bus)
		c.setZN(c.A)
		return cycles, nil
	case "PLP":
		c.P = (c.pop(bus) &^ FlagBreak) | FlagUnused
		return cycles, nil

	case "TAX":
		c.X = c.A
		c.setZN(c.X)
		return cycles, nil
	case "TAY":
		c.Y = c.A
		c.setZN(c.Y)
		return cycles, nil
	case "TXA":
		c.A = c.X
		c.setZN(c.A)
		return cycles, nil
	case "TYA":
		c.A = c.Y
		c.setZN(c.A)
		return cycles, nil
	case "TSX":
		c.X = c.SP
		c.setZN(c.X)
		return cycles, nil
	case "TXS":
		c.SP = c.X // Unlike TSX, TXS never touches the flags.
		return cycles, nil

	case "INX":
		c.X++
		c.setZN(c.X)
		return cycles, nil
	case "INY":
		c.Y++
		c.setZN(c.Y)
		return cycles, nil
	case "DEX":
		c.X--
		c.setZN(c.X)
		return cycles, nil
	case "DEY":
		c.Y--
		c.setZN(c.Y)
		return cycles, nil

	case "NOP":
		return cycles, nil
	}

	return c.executeAddressed(bus, mnemonic, mode, arg1, arg2, cycles)
}

// branch implements the shared shape of the eight conditional branches:
// 2 cycles if not taken, 3 if taken within the same page, 4 if taken
// across a page boundary.
func (c *Chip) branch(bus memory.Bus, offset uint8, taken bool) int {
	if !taken {
		return 2
	}
	addr, pageCrossed := c.effectiveAddress(bus, ModeRelative, offset, 0)
	c.PC = addr
	if pageCrossed {
		return 4
	}
	return 3
}

// executeAddressed handles every instruction whose operand (or, for
// ASL/LSR/ROL/ROR, whose only argument) is resolved through an
// addressing mode: loads, stores, the ALU group, BIT, and the
// read-modify-write shift/rotate/increment/decrement group.
func (c *Chip) executeAddressed(bus memory.Bus, mnemonic string, mode AddressingMode, arg1, arg2 uint8, cycles int) (int, error) {
	var addr uint16
	if mode != ModeImmediate && mode != ModeAccumulator {
		var pageCrossed bool
		addr, pageCrossed = c.effectiveAddress(bus, mode, arg1, arg2)
		if pageCrossed && pageCrossPenalized(mnemonic, mode) {
			cycles++
		}
	}

	operand := func() uint8 {
		switch mode {
		case ModeImmediate:
			return arg1
		case ModeAccumulator:
			return c.A
		default:
			return bus.Read(addr)
		}
	}

	switch mnemonic {
	case "LDA":
		c.A = operand()
		c.setZN(c.A)
	case "LDX":
		c.X = operand()
		c.setZN(c.X)
	case "LDY":
		c.Y = operand()
		c.setZN(c.Y)
	case "STA":
		bus.Write(addr, c.A)
	case "STX":
		bus.Write(addr, c.X)
	case "STY":
		bus.Write(addr, c.Y)
	case "AND":
		c.A &= operand()
		c.setZN(c.A)
	case "ORA":
		c.A |= operand()
		c.setZN(c.A)
	case "EOR":
		c.A ^= operand()
		c.setZN(c.A)
	case "ADC":
		c.adc(operand())
	case "SBC":
		c.sbc(operand())
	case "CMP":
		c.compare(c.A, operand())
	case "CPX":
		c.compare(c.X, operand())
	case "CPY":
		c.compare(c.Y, operand())
	case "BIT":
		c.bit(operand())
	case "ASL":
		c.shiftRotate(bus, mode, addr, mnemonic)
	case "LSR":
		c.shiftRotate(bus, mode, addr, mnemonic)
	case "ROL":
		c.shiftRotate(bus, mode, addr, mnemonic)
	case "ROR":
		c.shiftRotate(bus, mode, addr, mnemonic)
	case "INC":
		c.incDec(bus, addr, 1)
	case "DEC":
		c.incDec(bus, addr, 0xFF) // -1, as uint8 wraparound.
	default:
		return 0, InvalidState{Reason: "opcode table entry with unhandled mnemonic " + mnemonic}
	}

	return cycles, nil
}

// shiftRotate implements ASL/LSR/ROL/ROR against either the accumulator
// or a memory operand, sharing the carry-in/carry-out and flag logic
// across both operand locations.
func (c *Chip) shiftRotate(bus memory.Bus, mode AddressingMode, addr uint16, op string) {
	var v uint8
	if mode == ModeAccumulator {
		v = c.A
	} else {
		v = bus.Read(addr)
	}

	var result uint8
	switch op {
	case "ASL":
		c.setCarry(v&0x80 != 0)
		result = v << 1
	case "LSR":
		c.setCarry(v&0x01 != 0)
		result = v >> 1
	case "ROL":
		carryIn := c.P & FlagCarry
		c.setCarry(v&0x80 != 0)
		result = v<<1 | carryIn
	case "ROR":
		carryIn := (c.P & FlagCarry) << 7
		c.setCarry(v&0x01 != 0)
		result = v>>1 | carryIn
	}
	c.setZN(result)

	if mode == ModeAccumulator {
		c.A = result
	} else {
		bus.Write(addr, result)
	}
}

// incDec implements INC/DEC (delta==1 or delta==0xFF, i.e. -1 mod 256)
// against a memory operand. INX/INY/DEX/DEY are handled directly in
// execute since they never touch the bus.
func (c *Chip) incDec(bus memory.Bus, addr uint16, delta uint8) {
	v := bus.Read(addr) + delta
	bus.Write(addr, v)
	c.setZN(v)
}

// bit implements BIT: Z is set from A&v, but N and V are copied straight
// from bits 7 and 6 of the operand rather than of the result.
func (c *Chip) bit(v uint8) {
	c.setZeroFlag(c.A & v)
	c.setNegativeFlag(v)
	c.setOverflow(v&0x40 != 0)
}

// compare implements CMP/CPX/CPY: a plain subtraction whose result is
// only used to set flags, never written back.
func (c *Chip) compare(reg, val uint8) {
	c.setZN(reg - val)
	c.setCarry(reg >= val)
}

// overflowCheck reports the signed-overflow condition shared by ADC and
// SBC's binary path: the addends agree in sign and the result disagrees
// with both.
func overflowCheck(a, b, result uint8) bool {
	return (a^result)&(b^result)&0x80 != 0
}

// adc implements ADC, including BCD addition when decimal mode is both
// enabled on this Chip (see WithoutBCD) and selected by the D flag.
func (c *Chip) adc(val uint8) {
	carry := c.P & FlagCarry

	if c.decimal && c.P&FlagDecimal != 0 {
		lo := (c.A & 0x0F) + (val & 0x0F) + carry
		if lo >= 0x0A {
			lo = ((lo + 0x06) & 0x0F) + 0x10
		}
		sum := uint16(c.A&0xF0) + uint16(val&0xF0) + uint16(lo)

		// N and V are derived from the pre-fixup nibble sum, matching how
		// the hardware's decimal-mode adjust circuitry actually behaves;
		// they do not necessarily match the final BCD-corrected result.
		seq := uint8(sum)
		c.setNegativeFlag(seq)
		c.setOverflow(overflowCheck(c.A, val, seq))

		if sum >= 0xA0 {
			sum += 0x60
		}
		c.setCarry(sum >= 0x100)

		bin := c.A + val + carry
		c.setZeroFlag(bin)

		c.A = uint8(sum)
		return
	}

	sum := uint16(c.A) + uint16(val) + uint16(carry)
	result := uint8(sum)
	c.setOverflow(overflowCheck(c.A, val, result))
	c.setCarry(sum > 0xFF)
	c.A = result
	c.setZN(c.A)
}

// sbc implements SBC. The binary path is ADC with the operand
// one's-complemented, the standard trick; BCD subtraction needs its own
// nibble-borrow arithmetic since that trick doesn't hold once the nibbles
// are interpreted as decimal digits.
func (c *Chip) sbc(val uint8) {
	carry := c.P & FlagCarry

	if c.decimal && c.P&FlagDecimal != 0 {
		lo := int(c.A&0x0F) - int(val&0x0F) - int(1-carry)
		borrowLo := 0
		if lo < 0 {
			lo += 10
			borrowLo = 1
		}
		hi := int(c.A>>4) - int(val>>4) - borrowLo
		borrowed := hi < 0
		if borrowed {
			hi += 10
		}
		result := uint8(hi<<4) | uint8(lo)

		notVal := ^val
		bin := uint16(c.A) + uint16(notVal) + uint16(carry)
		c.setOverflow(overflowCheck(c.A, notVal, uint8(bin)))
		c.setCarry(!borrowed)
		c.setZN(uint8(bin))

		c.A = result
		return
	}

	notVal := ^val
	sum := uint16(c.A) + uint16(notVal) + uint16(carry)
	result := uint8(sum)
	c.setOverflow(overflowCheck(c.A, notVal, result))
	c.setCarry(sum > 0xFF)
	c.A = result
	c.setZN(c.A)
}
