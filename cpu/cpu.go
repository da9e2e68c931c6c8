// Package cpu implements the MOS 6502 instruction-fetch-decode-execute
// engine: register and flag semantics, the addressing-mode resolver,
// the executor, and the interrupt/stack protocol. It does not implement
// sub-instruction (bus-cycle) timing, undocumented opcodes, or a
// concrete host memory map - those are left to callers of memory.Bus.
package cpu

import (
	"fmt"

	"github.com/corevm/m6502/irq"
	"github.com/corevm/m6502/memory"
)

// Status register bit masks.
const (
	FlagCarry     = uint8(0x01)
	FlagZero      = uint8(0x02)
	FlagInterrupt = uint8(0x04)
	FlagDecimal   = uint8(0x08)
	FlagBreak     = uint8(0x10)
	FlagUnused    = uint8(0x20) // Always 1 on the physical chip; conventionally forced to 1 when pushed.
	FlagOverflow  = uint8(0x40)
	FlagNegative  = uint8(0x80)
)

// Interrupt and reset vectors, fixed in the top of the address space.
const (
	VectorNMI   = uint16(0xFFFA)
	VectorReset = uint16(0xFFFC)
	VectorIRQ   = uint16(0xFFFE)
)

// stackBase is where the 256 byte stack page begins; the effective
// stack address is always stackBase|SP.
const stackBase = uint16(0x0100)

// resetSP is the stack pointer value Reset leaves behind. Real hardware
// decrements SP three times during the reset sequence from whatever it
// held at power-on, which isn't well defined; $FD is the value visual6502
// traces show for a plain power-on-then-reset and is the value most
// 6502 test suites assume, so that's the convention used here rather
// than the $FF the original source hardcodes (see DESIGN.md).
const resetSP = uint8(0xFD)

// InvalidState reports an internal precondition failure - a bug in this
// package, not a property of the program being emulated.
type InvalidState struct {
	Reason string
}

func (e InvalidState) Error() string {
	return fmt.Sprintf("invalid cpu state: %s", e.Reason)
}

// UnknownOpcode is returned by Step when the opcode byte at PC has no
// entry in the decode table (i.e. it's one of the undocumented opcodes
// this package doesn't implement).
type UnknownOpcode struct {
	Opcode uint8
	PC     uint16
}

func (e UnknownOpcode) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02X at $%04X", e.Opcode, e.PC)
}

// Halted is returned by Step once the CPU has executed a halting
// opcode (none of the documented 56 mnemonics halt, but a host may use
// this to signal a deliberate stop condition via Chip.Halt).
type Halted struct {
	PC uint16
}

func (e Halted) Error() string {
	return fmt.Sprintf("cpu halted at $%04X", e.PC)
}

// Chip is a single MOS 6502. It owns its registers exclusively; the Bus
// passed to each call is the only shared, externally visible state.
// Multiple Chips may run concurrently on separate goroutines provided
// each is given its own Bus.
type Chip struct {
	A  uint8  // Accumulator
	X  uint8  // Index X
	Y  uint8  // Index Y
	SP uint8  // Stack pointer (effective address stackBase|SP)
	P  uint8  // Status register
	PC uint16 // Program counter

	decimal bool // Whether ADC/SBC honor the D flag (BCD math). Off emulates CPU_NMOS_RICOH (NES).

	irqSender irq.Sender // Optional level-triggered IRQ source polled every Step.
	nmiSender irq.Sender // Optional edge-triggered NMI source polled every Step.
	irqLine   bool       // Latched by RequestIRQ / irqSender; cleared once serviced.
	nmiLine   bool       // Latched by RequestNMI / nmiSender (edge); cleared once serviced.
	nmiPrev   bool       // Previous sample of nmiSender, to detect the rising edge.

	halted   bool
	haltedAt uint16
}

// Option configures a Chip at construction time.
type Option func(*Chip)

// WithIRQSender wires a polled, level-triggered IRQ source into the CPU
// in addition to (or instead of) explicit RequestIRQ calls.
func WithIRQSender(s irq.Sender) Option {
	return func(c *Chip) { c.irqSender = s }
}

// WithNMISender wires a polled, edge-triggered NMI source into the CPU
// in addition to (or instead of) explicit RequestNMI calls.
func WithNMISender(s irq.Sender) Option {
	return func(c *Chip) { c.nmiSender = s }
}

// WithoutBCD disables decimal-mode ADC/SBC, matching the Ricoh variant
// used in the NES where BCD was fused off. When disabled, ADC/SBC
// always perform binary math even if D is set.
func WithoutBCD() Option {
	return func(c *Chip) { c.decimal = false }
}

// New creates a powered-off Chip. Call Reset before Step to bring it to
// a defined starting state (loads PC from the reset vector).
func New(opts ...Option) *Chip {
	c := &Chip{decimal: true}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reset brings the CPU to its documented reset state: interrupts
// disabled, decimal mode cleared, SP set to resetSP, and PC loaded from
// VectorReset. A, X, Y, and the remaining flags are left untouched,
// matching real hardware where reset doesn't clear the registers.
func (c *Chip) Reset(bus memory.Bus) {
	c.SP = resetSP
	c.P |= FlagInterrupt
	c.P &^= FlagDecimal
	c.halted = false
	c.irqLine = false
	c.nmiLine = false
	c.nmiPrev = false
	c.PC = memory.ReadWord(bus, VectorReset)
}

// RequestIRQ latches a pending maskable interrupt. It's honored at the
// next Step boundary provided the I flag is clear at that time; if I is
// set the request is remembered and re-checked on every later Step
// (level-triggered), just as holding the IRQ line high on real hardware
// does.
func (c *Chip) RequestIRQ() {
	c.irqLine = true
}

// RequestNMI latches a pending non-maskable interrupt. NMI cannot be
// masked by the I flag and is edge triggered: once latched it fires on
// the next Step regardless of further calls.
func (c *Chip) RequestNMI() {
	c.nmiLine = true
}

// Halt marks the CPU as stopped; subsequent Step calls return Halted
// without changing any state. Hosts can use this for conditions the 6502
// itself has no opcode for; the host package's terminal halt command is
// tracked by Terminal.Halted instead and does not call Halt.
func (c *Chip) Halt() {
	c.halted = true
	c.haltedAt = c.PC
}

// IsHalted reports whether the CPU has been stopped via Halt.
func (c *Chip) IsHalted() bool {
	return c.halted
}

// Step fetches, decodes, and executes exactly one instruction (or, if
// an interrupt is pending and honored, runs the 7-cycle interrupt
// sequence instead) and returns the number of clock cycles it would
// take on real hardware. Interrupts are only sampled between
// instructions, so a partially executed instruction is never
// interrupted.
func (c *Chip) Step(bus memory.Bus) (int, error) {
	if c.halted {
		return 0, Halted{c.haltedAt}
	}

	if c.irqSender != nil && c.irqSender.Raised() {
		c.irqLine = true
	}
	if c.nmiSender != nil {
		raised := c.nmiSender.Raised()
		if raised && !c.nmiPrev {
			c.nmiLine = true
		}
		c.nmiPrev = raised
	}

	if c.nmiLine {
		c.nmiLine = false
		c.serviceInterrupt(bus, VectorNMI, false)
		return 7, nil
	}
	if c.irqLine && c.P&FlagInterrupt == 0 {
		c.irqLine = false
		c.serviceInterrupt(bus, VectorIRQ, false)
		return 7, nil
	}

	pc := c.PC
	op := bus.Read(c.PC)
	c.PC++

	entry := OpcodeTable[op]
	if entry.Mnemonic == "" {
		return 0, UnknownOpcode{op, pc}
	}
	return c.execute(bus, entry)
}

// serviceInterrupt pushes PC and P and loads PC from the given vector.
// brk distinguishes a software BRK (B pushed as 1) from a hardware
// IRQ/NMI (B pushed as 0); the caller is expected to have already
// advanced PC past BRK's signature byte when brk is true.
func (c *Chip) serviceInterrupt(bus memory.Bus, vector uint16, brk bool) {
	c.push(bus, uint8(c.PC>>8))
	c.push(bus, uint8(c.PC))
	push := c.P | FlagUnused
	if brk {
		push |= FlagBreak
	} else {
		push &^= FlagBreak
	}
	c.push(bus, push)
	c.P |= FlagInterrupt
	c.PC = memory.ReadWord(bus, vector)
}

// push writes val to the stack and decrements SP, wrapping modulo 256
// as real hardware silently does on overflow.
func (c *Chip) push(bus memory.Bus, val uint8) {
	bus.Write(stackBase|uint16(c.SP), val)
	c.SP--
}

// pop increments SP and reads the resulting stack slot.
func (c *Chip) pop(bus memory.Bus) uint8 {
	c.SP++
	return bus.Read(stackBase | uint16(c.SP))
}

// setZN updates the Z and N flags from v, the pattern shared by every
// load, transfer, increment/decrement, and shift/rotate instruction.
func (c *Chip) setZN(v uint8) {
	c.setZeroFlag(v)
	c.setNegativeFlag(v)
}

// setZeroFlag and setNegativeFlag update Z and N independently. ADC in
// decimal mode needs this split: N comes from the pre-fixup nibble sum,
// Z from the binary sum, and the two are not generally the same value.
// BIT likewise takes Z and N from different values.
func (c *Chip) setZeroFlag(v uint8) {
	if v == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
}

func (c *Chip) setNegativeFlag(v uint8) {
	if v&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
}

func (c *Chip) setCarry(cond bool) {
	if cond {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
}

func (c *Chip) setOverflow(cond bool) {
	if cond {
		c.P |= FlagOverflow
	} else {
		c.P &^= FlagOverflow
	}
}
