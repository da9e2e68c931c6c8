package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

// flatMemory is the simplest possible memory.Bus: a flat 64KiB array with
// no bank switching, good enough to drive the executor directly without
// a host memory map.
type flatMemory struct {
	mem [1 << 16]uint8
}

func (m *flatMemory) Read(addr uint16) uint8       { return m.mem[addr] }
func (m *flatMemory) Write(addr uint16, val uint8) { m.mem[addr] = val }

func (m *flatMemory) loadAt(addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.mem[int(addr)+i] = b
	}
}

func (m *flatMemory) setVector(vector, target uint16) {
	m.mem[vector] = uint8(target)
	m.mem[vector+1] = uint8(target >> 8)
}

// newTestChip returns a Chip reset against mem, with PC pointing at
// start via the reset vector.
func newTestChip(mem *flatMemory, start uint16) *Chip {
	mem.setVector(VectorReset, start)
	c := New()
	c.Reset(mem)
	return c
}

func TestResetVectorsPC(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0xC000)
	if c.PC != 0xC000 {
		t.Errorf("PC after reset = %04X, want C000", c.PC)
	}
	if c.SP != resetSP {
		t.Errorf("SP after reset = %02X, want %02X", c.SP, resetSP)
	}
	if c.P&FlagInterrupt == 0 {
		t.Errorf("I flag not set after reset")
	}
}

// TestADCBinary exercises concrete scenario 1: A=$50, operand=$50, C=0.
func TestADCBinary(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x69, 0x50) // ADC #$50
	c.A = 0x50
	c.P &^= FlagCarry

	cycles, err := c.Step(mem)
	if err != nil {
		t.Fatalf("Step: %v state: %s", err, spew.Sdump(c))
	}
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
	if diff := deep.Equal(c.A, uint8(0xA0)); diff != nil {
		t.Errorf("A: %v state: %s", diff, spew.Sdump(c))
	}
	wantP := FlagNegative | FlagOverflow | FlagInterrupt
	if c.P != wantP {
		t.Errorf("P = %08b, want %08b state: %s", c.P, wantP, spew.Sdump(c))
	}
}

// TestSBCBinary exercises concrete scenario 2: A=$50, operand=$F0, C=1.
func TestSBCBinary(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0xE9, 0xF0) // SBC #$F0
	c.A = 0x50
	c.P |= FlagCarry

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x60 {
		t.Errorf("A = %02X, want 60", c.A)
	}
	if c.P&FlagCarry != 0 {
		t.Errorf("C set, want clear")
	}
	if c.P&FlagOverflow != 0 {
		t.Errorf("V set, want clear")
	}
	if c.P&FlagNegative != 0 {
		t.Errorf("N set, want clear")
	}
	if c.P&FlagZero != 0 {
		t.Errorf("Z set, want clear")
	}
}

// referenceADC computes the binary ADC result and resulting flags from
// first principles (independent of adc's own nibble/carry-trick code
// path), to serve as an oracle for the exhaustive test below.
func referenceADC(a, val, carryIn uint8) (result uint8, carryOut, overflow, zero, negative bool) {
	sum := int(a) + int(val) + int(carryIn)
	result = uint8(sum)
	carryOut = sum > 0xFF
	signed := int(int8(a)) + int(int8(val)) + int(carryIn)
	overflow = signed < -128 || signed > 127
	zero = result == 0
	negative = result&0x80 != 0
	return
}

// referenceSBC computes the binary SBC result and resulting flags from
// first principles (a direct subtract-with-borrow, not the
// one's-complement-then-add trick sbc itself uses), to serve as an
// oracle for the exhaustive test below.
func referenceSBC(a, val, carryIn uint8) (result uint8, carryOut, overflow, zero, negative bool) {
	borrow := int(1 - carryIn)
	diff := int(a) - int(val) - borrow
	result = uint8(diff)
	carryOut = diff >= 0
	signed := int(int8(a)) - int(int8(val)) - borrow
	overflow = signed < -128 || signed > 127
	zero = result == 0
	negative = result&0x80 != 0
	return
}

// TestADCExhaustiveBinary enumerates all 256x256 (A, operand) pairs for
// both carry-in states and checks ADC's binary result and flags against
// an independently computed reference for each, rather than relying on
// a handful of spot checks.
func TestADCExhaustiveBinary(t *testing.T) {
	mem := &flatMemory{}
	mem.loadAt(0x8000, 0x69, 0x00) // ADC #imm
	for a := 0; a < 256; a++ {
		for val := 0; val < 256; val++ {
			for carryIn := uint8(0); carryIn <= 1; carryIn++ {
				mem.mem[0x8001] = uint8(val)
				c := New()
				c.PC = 0x8000
				c.A = uint8(a)
				c.P &^= FlagDecimal
				if carryIn != 0 {
					c.P |= FlagCarry
				}
				if _, err := c.Step(mem); err != nil {
					t.Fatalf("Step(A=%02X, val=%02X, C=%d): %v", a, val, carryIn, err)
				}
				wantA, wantC, wantV, wantZ, wantN := referenceADC(uint8(a), uint8(val), carryIn)
				gotC := c.P&FlagCarry != 0
				gotV := c.P&FlagOverflow != 0
				gotZ := c.P&FlagZero != 0
				gotN := c.P&FlagNegative != 0
				if c.A != wantA || gotC != wantC || gotV != wantV || gotZ != wantZ || gotN != wantN {
					t.Fatalf("ADC A=%02X val=%02X Cin=%d: got A=%02X C=%v V=%v Z=%v N=%v, want A=%02X C=%v V=%v Z=%v N=%v",
						a, val, carryIn, c.A, gotC, gotV, gotZ, gotN, wantA, wantC, wantV, wantZ, wantN)
				}
			}
		}
	}
}

// TestSBCExhaustiveBinary is TestADCExhaustiveBinary's counterpart for
// SBC.
func TestSBCExhaustiveBinary(t *testing.T) {
	mem := &flatMemory{}
	mem.loadAt(0x8000, 0xE9, 0x00) // SBC #imm
	for a := 0; a < 256; a++ {
		for val := 0; val < 256; val++ {
			for carryIn := uint8(0); carryIn <= 1; carryIn++ {
				mem.mem[0x8001] = uint8(val)
				c := New()
				c.PC = 0x8000
				c.A = uint8(a)
				c.P &^= FlagDecimal
				if carryIn != 0 {
					c.P |= FlagCarry
				}
				if _, err := c.Step(mem); err != nil {
					t.Fatalf("Step(A=%02X, val=%02X, C=%d): %v", a, val, carryIn, err)
				}
				wantA, wantC, wantV, wantZ, wantN := referenceSBC(uint8(a), uint8(val), carryIn)
				gotC := c.P&FlagCarry != 0
				gotV := c.P&FlagOverflow != 0
				gotZ := c.P&FlagZero != 0
				gotN := c.P&FlagNegative != 0
				if c.A != wantA || gotC != wantC || gotV != wantV || gotZ != wantZ || gotN != wantN {
					t.Fatalf("SBC A=%02X val=%02X Cin=%d: got A=%02X C=%v V=%v Z=%v N=%v, want A=%02X C=%v V=%v Z=%v N=%v",
						a, val, carryIn, c.A, gotC, gotV, gotZ, gotN, wantA, wantC, wantV, wantZ, wantN)
				}
			}
		}
	}
}

// TestBranchForward exercises concrete scenario 3.
func TestBranchForward(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x1000)
	mem.loadAt(0x1000, 0xD0, 0x10) // BNE +$10
	c.P &^= FlagZero

	cycles, err := c.Step(mem)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x1012 {
		t.Errorf("PC = %04X, want 1012", c.PC)
	}
	if cycles != 3 {
		t.Errorf("cycles = %d, want 3", cycles)
	}
}

// TestBranchPageCross confirms a taken branch whose target falls in a
// different page than the post-operand PC costs 4 cycles instead of 3.
func TestBranchPageCross(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x10F0)
	mem.loadAt(0x10F0, 0xD0, 0x20) // BNE +$20, post-operand PC=$10F2, target=$1112
	c.P &^= FlagZero

	cycles, err := c.Step(mem)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x1112 {
		t.Errorf("PC = %04X, want 1112", c.PC)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

// TestIndexedIndirectLoad exercises concrete scenario 5: zp[$20]=$00,
// zp[$21]=$80, X=$04, operand=$1C; LDA ($1C,X) reads the pointer from
// $1C+X=$20/$21 and loads from $8000.
func TestIndexedIndirectLoad(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x9000)
	mem.loadAt(0x0020, 0x00, 0x80) // pointer low/high at $20/$21
	mem.Write(0x8000, 0x42)
	mem.loadAt(0x9000, 0xA1, 0x1C) // LDA ($1C,X)
	c.X = 0x04

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x42 {
		t.Errorf("A = %02X, want 42", c.A)
	}
}

// TestStackRoundTrip checks PHA;PLA restores A and leaves SP unchanged.
func TestStackRoundTrip(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x48, 0x68) // PHA; PLA
	c.A = 0x7F
	wantSP := c.SP

	if _, err := c.Step(mem); err != nil { // PHA
		t.Fatalf("Step: %v", err)
	}
	if _, err := c.Step(mem); err != nil { // PLA
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x7F {
		t.Errorf("A = %02X, want 7F", c.A)
	}
	if c.SP != wantSP {
		t.Errorf("SP = %02X, want %02X", c.SP, wantSP)
	}
	if c.P&FlagZero != 0 || c.P&FlagNegative != 0 {
		t.Errorf("N/Z not reflecting 0x7F: P=%08b", c.P)
	}
}

// TestJSRRTSRoundTrip checks JSR pushes return-address-minus-one and RTS
// restores it correctly.
func TestJSRRTSRoundTrip(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	mem.loadAt(0x9000, 0x60)             // RTS
	wantSP := c.SP

	if _, err := c.Step(mem); err != nil { // JSR
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x9000 {
		t.Errorf("PC after JSR = %04X, want 9000", c.PC)
	}
	if _, err := c.Step(mem); err != nil { // RTS
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x8003 {
		t.Errorf("PC after RTS = %04X, want 8003", c.PC)
	}
	if c.SP != wantSP {
		t.Errorf("SP = %02X, want %02X", c.SP, wantSP)
	}
}

// TestZeroPageIndexedWrap checks zero-page-indexed addressing wraps within
// page zero instead of carrying into page one.
func TestZeroPageIndexedWrap(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	c.X = 0x02
	addr, crossed := c.effectiveAddress(mem, ModeZeroPageX, 0xFF, 0)
	if addr != 0x0001 {
		t.Errorf("effective address = %04X, want 0001", addr)
	}
	if crossed {
		t.Errorf("zero page indexing should never report a page cross")
	}
}

// TestJMPIndirectPageWrapBug exercises the reproduced hardware bug: the
// indirect vector's high byte wraps within the same page rather than
// rolling into the next one.
func TestJMPIndirectPageWrapBug(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x6C, 0xFF, 0x30) // JMP ($30FF)
	mem.Write(0x30FF, 0x00)
	mem.Write(0x3100, 0x40) // If the bug isn't reproduced, hi comes from here.
	mem.Write(0x3000, 0x80) // With the bug, hi wraps back to $3000.

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x8000 {
		t.Errorf("PC = %04X, want 8000 (bug reproduced: hi byte from $3000)", c.PC)
	}
}

func TestIRQMaskedWhileIDisabledThenServiced(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.setVector(VectorIRQ, 0x9000)
	mem.loadAt(0x8000, 0xEA) // NOP
	c.P |= FlagInterrupt
	c.RequestIRQ()

	cycles, err := c.Step(mem)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 2 || c.PC != 0x8001 {
		t.Errorf("IRQ fired while masked: PC=%04X cycles=%d", c.PC, cycles)
	}

	c.P &^= FlagInterrupt
	cycles, err = c.Step(mem)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 7 || c.PC != 0x9000 {
		t.Errorf("IRQ not serviced once unmasked: PC=%04X cycles=%d", c.PC, cycles)
	}
	if c.P&FlagInterrupt == 0 {
		t.Errorf("I flag not set by interrupt servicing")
	}
}

func TestNMIAlwaysServiced(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.setVector(VectorNMI, 0xA000)
	mem.loadAt(0x8000, 0xEA)
	c.P |= FlagInterrupt // Even masked, NMI must fire.
	c.RequestNMI()

	cycles, err := c.Step(mem)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 7 || c.PC != 0xA000 {
		t.Errorf("NMI not serviced: PC=%04X cycles=%d", c.PC, cycles)
	}
}

func TestBRKPushesPCPlusTwo(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.setVector(VectorIRQ, 0x9000)
	mem.loadAt(0x8000, 0x00, 0xEA) // BRK <signature byte>

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x9000 {
		t.Errorf("PC = %04X, want 9000", c.PC)
	}
	lo := mem.Read(uint16(0x0100) | uint16(c.SP+2))
	hi := mem.Read(uint16(0x0100) | uint16(c.SP+3))
	pushed := uint16(lo) | uint16(hi)<<8
	if pushed != 0x8002 {
		t.Errorf("pushed return PC = %04X, want 8002", pushed)
	}
}

func TestBVCBVSDistinctConditions(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x50, 0x02) // BVC +2
	c.P |= FlagOverflow            // V set: BVC must not branch.

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x8002 {
		t.Errorf("BVC branched with V set: PC=%04X", c.PC)
	}
}

func TestINYIncrementsY(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0xC8) // INY
	c.X, c.Y = 0x10, 0x10

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Y != 0x11 {
		t.Errorf("Y = %02X, want 11", c.Y)
	}
	if c.X != 0x10 {
		t.Errorf("X changed by INY: X=%02X", c.X)
	}
}

func TestADCDecimalMode(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x69, 0x45) // ADC #$45
	c.A = 0x25
	c.P |= FlagDecimal
	c.P &^= FlagCarry

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x70 { // 25 + 45 = 70 in BCD
		t.Errorf("A = %02X, want 70 (BCD 25+45)", c.A)
	}
}

func TestWithoutBCDIgnoresDecimalFlag(t *testing.T) {
	mem := &flatMemory{}
	mem.setVector(VectorReset, 0x8000)
	c := New(WithoutBCD())
	c.Reset(mem)
	mem.loadAt(0x8000, 0x69, 0x45)
	c.A = 0x25
	c.P |= FlagDecimal
	c.P &^= FlagCarry

	if _, err := c.Step(mem); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x6A { // plain binary 0x25+0x45
		t.Errorf("A = %02X, want 6A (binary, BCD disabled)", c.A)
	}
}

func TestUnknownOpcode(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	mem.loadAt(0x8000, 0x02) // No entry in OpcodeTable.

	_, err := c.Step(mem)
	if err == nil {
		t.Fatalf("expected UnknownOpcode error")
	}
	if _, ok := err.(UnknownOpcode); !ok {
		t.Errorf("err = %T, want UnknownOpcode", err)
	}
}

func TestHalt(t *testing.T) {
	mem := &flatMemory{}
	c := newTestChip(mem, 0x8000)
	c.Halt()
	if !c.IsHalted() {
		t.Fatalf("IsHalted() = false after Halt()")
	}
	_, err := c.Step(mem)
	if _, ok := err.(Halted); !ok {
		t.Errorf("err = %T, want Halted", err)
	}
}
