// Package irq defines the basic interfaces used to drive a 6502 family
// interrupt line. A device that wants to request an interrupt (IRQ or
// NMI) implements Sender so the CPU can poll it without the device and
// the CPU having to know about each other's concrete types.
//
// NMI is edge triggered on real hardware: a single Raised()==true sample
// latches the interrupt. IRQ is level triggered: it keeps firing for as
// long as the line is held and the I flag is clear. The Chip in the cpu
// package accounts for this difference; Sender itself just reports the
// instantaneous state of the line.
package irq

// Sender defines the interface for an interrupt source.
type Sender interface {
	// Raised indicates whether the interrupt line is currently held high.
	Raised() bool
}
