// Package host composes cpu.Chip and memory.Bus into a runnable
// machine: a concrete address-space split, a terminal mailbox device,
// and the reference "Hello World" program. None of this is part of the
// CPU core itself - it's one possible collaborator the core was built
// to plug into, grounded on the reference host this project was
// originally validated against.
package host

// Address space layout, mirroring the reference host's three-way split.
const (
	ramSize = 0x4000
	ioSize  = 0x4000
	romSize = 0x8000

	ramBase = 0x0000
	ioBase  = 0x4000
	romBase = 0x8000
)

// Bus implements memory.Bus over three regions: general RAM, a 16KiB IO
// window (currently just the Terminal), and ROM. Writes to ROM are
// accepted rather than rejected, matching the reference host, which
// never distinguished the two at the memory-map level.
type Bus struct {
	ram      [ramSize]uint8
	rom      [romSize]uint8
	Terminal *Terminal
}

// New returns a Bus with an empty Terminal wired into the IO window.
func New() *Bus {
	return &Bus{Terminal: NewTerminal()}
}

// LoadROM copies prog into ROM starting at address 0x8000, matching
// read_file's behavior of filling ROM_DATA from the front.
func (b *Bus) LoadROM(prog []uint8) {
	copy(b.rom[:], prog)
}

// Read implements memory.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < ioBase:
		return b.ram[addr-ramBase]
	case addr < romBase:
		return b.Terminal.Read(addr - ioBase)
	default:
		return b.rom[addr-romBase]
	}
}

// Write implements memory.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < ioBase:
		b.ram[addr-ramBase] = val
	case addr < romBase:
		b.Terminal.Write(addr-ioBase, val)
	default:
		b.rom[addr-romBase] = val
	}
}
