// Package tui provides an interactive, bubbletea-driven single-step
// debugger, grounded on a second reference 6502 project's page-table
// debugger: a hex dump of memory around the PC, register/flag status,
// the disassembled next instruction, and a spew dump of the Chip,
// stepped one key at a time.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/corevm/m6502/cpu"
	"github.com/corevm/m6502/disassemble"
	"github.com/corevm/m6502/host"
)

// Run starts the TUI against an already-reset Chip and Bus and blocks
// until the user quits.
func Run(c *cpu.Chip, bus *host.Bus) error {
	_, err := tea.NewProgram(model{cpu: c, bus: bus}).Run()
	return err
}

type model struct {
	cpu *cpu.Chip
	bus *host.Bus

	prevPC uint16
	err    error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "n":
			m.prevPC = m.cpu.PC
			if _, err := m.cpu.Step(m.bus); err != nil {
				m.err = err
				return m, tea.Quit
			}
			if m.bus.Terminal.Halted {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

const bytesPerRow = 16
const rowsShown = 6

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < bytesPerRow; i++ {
		addr := start + i
		b := m.bus.Read(addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	base := m.cpu.PC &^ (bytesPerRow - 1)
	start := base - bytesPerRow*(rowsShown/2)

	rows := make([]string, 0, rowsShown)
	for i := 0; i < rowsShown; i++ {
		rows = append(rows, m.renderPage(start+uint16(i*bytesPerRow)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	flags := []struct {
		name string
		set  bool
	}{
		{"N", m.cpu.P&cpu.FlagNegative != 0},
		{"V", m.cpu.P&cpu.FlagOverflow != 0},
		{"-", m.cpu.P&cpu.FlagUnused != 0},
		{"B", m.cpu.P&cpu.FlagBreak != 0},
		{"D", m.cpu.P&cpu.FlagDecimal != 0},
		{"I", m.cpu.P&cpu.FlagInterrupt != 0},
		{"Z", m.cpu.P&cpu.FlagZero != 0},
		{"C", m.cpu.P&cpu.FlagCarry != 0},
	}
	var header, line string
	for _, f := range flags {
		header += f.name + " "
		if f.set {
			line += "/ "
		} else {
			line += "  "
		}
	}
	return fmt.Sprintf(
		"\nPC: %04x (was %04x)\n A: %02x\n X: %02x\n Y: %02x\nSP: %02x\n%s\n%s\n",
		m.cpu.PC, m.prevPC, m.cpu.A, m.cpu.X, m.cpu.Y, m.cpu.SP, header, line,
	)
}

func (m model) View() string {
	text, _ := disassemble.Step(m.bus, m.cpu.PC)
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), m.status()),
		"",
		"next: "+text,
		spew.Sdump(m.cpu),
	)
	if m.err != nil {
		return body + "\nerror: " + m.err.Error()
	}
	return body
}
