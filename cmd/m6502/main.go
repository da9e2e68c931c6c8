// Command m6502 runs the core against the reference terminal host: load
// a binary into ROM (or fall back to the embedded Hello World program),
// reset, and either run it to completion, single-step it through the
// text debugger, or drive it from the bubbletea TUI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/corevm/m6502/cmd/m6502/tui"
	"github.com/corevm/m6502/cpu"
	"github.com/corevm/m6502/host"
)

var (
	file  = flag.String("f", "", "Path to a ROM binary to load at $8000. Defaults to the embedded Hello World program.")
	debug = flag.Bool("d", false, "Run under the line-oriented single-step debugger instead of free-running.")
	tuiF  = flag.Bool("tui", false, "Run under the interactive TUI debugger instead of free-running.")
)

func main() {
	flag.Parse()
	fmt.Println("*** 6502 EMULATOR ***")

	bus := host.New()
	bus.Terminal.Out = os.Stdout

	if *file != "" {
		fmt.Printf("Reading binary from file %q...\n", *file)
		rom, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("reading %s: %v", *file, err)
		}
		bus.LoadROM(rom)
	} else {
		fmt.Println("No input binary: loading Hello World...")
		bus.LoadROM(host.HelloWorld())
	}

	c := cpu.New()
	c.Reset(bus)

	switch {
	case *tuiF:
		if err := tui.Run(c, bus); err != nil {
			log.Fatalf("tui: %v", err)
		}
	case *debug:
		d := host.NewDebugger(c, bus, os.Stdin, os.Stdout)
		if err := d.Run(); err != nil {
			log.Fatalf("debugger: %v", err)
		}
	default:
		runFree(c, bus)
	}
}

// runFree steps the CPU until the terminal requests a halt or the
// executor hits an error (an unknown opcode, most likely).
func runFree(c *cpu.Chip, bus *host.Bus) {
	for !bus.Terminal.Halted {
		if _, err := c.Step(bus); err != nil {
			log.Fatalf("at $%04X: %v", c.PC, err)
		}
	}
	fmt.Println("Emulator received halt command...")
}
