// Package disassemble renders the instruction at a given address as
// text without executing it. It shares its decode table with the cpu
// package rather than carrying its own parallel copy, so the two can
// never drift apart on what an opcode byte means.
package disassemble

import (
	"fmt"

	"github.com/corevm/m6502/cpu"
	"github.com/corevm/m6502/memory"
)

// Step disassembles the instruction at addr, reading as many bytes as
// its addressing mode needs but never writing to bus. It returns the
// rendered text and the instruction's length in bytes (1-3), so a
// caller can advance addr by that amount to walk a program in order.
// Unknown opcodes render as "<NN>" with a length of 1.
func Step(bus memory.Bus, addr uint16) (string, int) {
	op := bus.Read(addr)
	entry := cpu.OpcodeTable[op]
	if entry.Mnemonic == "" {
		return fmt.Sprintf("<%02X>", op), 1
	}

	n := cpu.OperandBytes(entry.Mode)
	var arg1, arg2 uint8
	if n >= 1 {
		arg1 = bus.Read(addr + 1)
	}
	if n == 2 {
		arg2 = bus.Read(addr + 2)
	}
	length := n + 1

	operand := formatOperand(entry.Mode, addr, arg1, arg2)
	if operand == "" {
		return entry.Mnemonic, length
	}
	return entry.Mnemonic + " " + operand, length
}

// formatOperand renders the operand portion per mode, following the
// templates in the disassembler's format table. ModeImplicit has no
// operand text at all.
func formatOperand(mode cpu.AddressingMode, addr uint16, arg1, arg2 uint8) string {
	switch mode {
	case cpu.ModeImplicit:
		return ""
	case cpu.ModeAccumulator:
		return "A"
	case cpu.ModeImmediate:
		return fmt.Sprintf("#%02x", arg1)
	case cpu.ModeZeroPage:
		return fmt.Sprintf("$%02x", arg1)
	case cpu.ModeZeroPageX:
		return fmt.Sprintf("$%02x, X", arg1)
	case cpu.ModeZeroPageY:
		return fmt.Sprintf("$%02x, Y", arg1)
	case cpu.ModeAbsolute:
		return fmt.Sprintf("$%04x", absolute(arg1, arg2))
	case cpu.ModeAbsoluteX:
		return fmt.Sprintf("$%04x, X", absolute(arg1, arg2))
	case cpu.ModeAbsoluteY:
		return fmt.Sprintf("$%04x, Y", absolute(arg1, arg2))
	case cpu.ModeIndirect:
		return fmt.Sprintf("($%04x)", absolute(arg1, arg2))
	case cpu.ModeIndexedIndirectX:
		return fmt.Sprintf("($%02x, X)", arg1)
	case cpu.ModeIndirectIndexedY:
		return fmt.Sprintf("($%02x), Y", arg1)
	case cpu.ModeRelative:
		target := addr + 2 + uint16(int16(int8(arg1)))
		return fmt.Sprintf("$%02x ; $%04x", arg1, target)
	default:
		return ""
	}
}

func absolute(lo, hi uint8) uint16 {
	return uint16(lo) | uint16(hi)<<8
}
