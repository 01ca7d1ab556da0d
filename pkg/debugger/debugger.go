// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reflectvm/internal/rvmlog"
	"reflectvm/pkg/isa"
	"reflectvm/pkg/vm"
)

// Debugger wraps a running VM with an ordered breakpoint list. Adding
// the same address twice is permitted; removing an address removes
// every occurrence. This mirrors the reference debugger's behavior
// rather than silently deduplicating it.
type Debugger struct {
	VM          *vm.VM
	breakpoints []uint16
}

// New wraps v for interactive debugging.
func New(v *vm.VM) *Debugger {
	return &Debugger{VM: v}
}

// AddBreakpoint appends addr to the breakpoint list.
func (d *Debugger) AddBreakpoint(addr uint16) {
	d.breakpoints = append(d.breakpoints, addr)
}

// RemoveBreakpoint removes every occurrence of addr from the list.
func (d *Debugger) RemoveBreakpoint(addr uint16) {
	kept := d.breakpoints[:0]
	for _, bp := range d.breakpoints {
		if bp != addr {
			kept = append(kept, bp)
		}
	}
	d.breakpoints = kept
}

// Breakpoints returns the breakpoint list in insertion order,
// duplicates included.
func (d *Debugger) Breakpoints() []uint16 {
	return d.breakpoints
}

// IsBreakpoint reports whether addr appears anywhere in the breakpoint
// list.
func (d *Debugger) IsBreakpoint(addr uint16) bool {
	for _, bp := range d.breakpoints {
		if bp == addr {
			return true
		}
	}
	return false
}

// disassembleAt renders the instruction starting at pc for display,
// without consuming it. Undecodable bytes render as a raw data line,
// matching the disassembler's own fallback for invalid opcodes.
func (d *Debugger) disassembleAt(pc uint16) string {
	var window [4]byte
	for i := 0; i < 4; i++ {
		idx := int(pc) + i
		if idx < len(d.VM.Mem) {
			window[i] = d.VM.Mem[idx]
		}
	}
	in := isa.Decode(window, pc)
	if !in.Valid {
		return fmt.Sprintf("db %02X", window[0])
	}
	return isa.Render(in)
}

// Step disassembles the instruction at the current PC for display,
// then runs one fetch/decode/execute cycle.
func (d *Debugger) Step() (disassembly string, err error) {
	disassembly = d.disassembleAt(d.VM.PC)
	err = d.VM.Step()
	return disassembly, err
}

// Continue runs instructions until either the current PC hits a
// breakpoint (after first stepping past the PC it started at, so a
// breakpoint set on the current instruction does not immediately
// re-trigger) or the VM halts. Invalid-opcode and divide-by-zero
// errors are non-fatal to the VM, so Continue logs them and keeps
// going rather than stopping the run.
func (d *Debugger) Continue() error {
	// Always take one step first: if PC is itself a breakpoint, this
	// is what keeps continue from being a no-op.
	if err := d.VM.Step(); err != nil && err != vm.ErrHalted {
		rvmlog.Log(err.Error())
	}

	for d.VM.Running() && !d.IsBreakpoint(d.VM.PC) {
		if err := d.VM.Step(); err != nil {
			rvmlog.Log(err.Error())
		}
	}
	return nil
}

// parseAddress parses a "0xNNNN"-style address. On any parse failure
// it returns 0, the documented behavior for malformed debugger input.
func parseAddress(s string) uint16 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// RunREPL drives the interactive loop: print prompt, read a command,
// dispatch it, repeat until exit or halt.
func (d *Debugger) RunREPL(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintf(out, "[rdbg@0x%04X] > ", d.VM.PC)
		if !scanner.Scan() {
			return
		}
		switch ParseCommand(scanner.Text()).(type) {
		case Step:
			text, err := d.Step()
			fmt.Fprintln(out, text)
			if err != nil {
				fmt.Fprintln(out, err)
			}
		case Continue:
			if err := d.Continue(); err != nil {
				fmt.Fprintln(out, err)
			}
		case InsertBreakpointHere:
			d.AddBreakpoint(d.VM.PC)
			fmt.Fprintf(out, "[+] breakpoint set at 0x%04X\n", d.VM.PC)
		case InsertBreakpointAt:
			fmt.Fprint(out, "Enter address: ")
			addr := d.readAddress(scanner)
			d.AddBreakpoint(addr)
			fmt.Fprintf(out, "[+] breakpoint set at 0x%04X\n", addr)
		case ListBreakpoints:
			for _, bp := range d.breakpoints {
				fmt.Fprintf(out, "[+] 0x%04X\n", bp)
			}
		case RemoveBreakpoint:
			fmt.Fprint(out, "Enter address: ")
			addr := d.readAddress(scanner)
			d.RemoveBreakpoint(addr)
		case PrintMemory:
			fmt.Fprint(out, "Enter address: ")
			addr := d.readAddress(scanner)
			fmt.Fprintf(out, "0x%02X\n", d.VM.Mem[addr])
		case PrintRegisters:
			for i, r := range d.VM.Reg {
				fmt.Fprintf(out, "r%x: 0x%02X\n", i, r)
			}
		case Help:
			d.printHelp(out)
		case Exit:
			return
		case Unknown:
			fmt.Fprintln(out, "[-] Unrecognized command. Type 'help' for help.")
		}

		if d.VM.Halted() {
			fmt.Fprintln(out, "[+] program halted")
			return
		}
	}
}

func (d *Debugger) readAddress(scanner *bufio.Scanner) uint16 {
	if !scanner.Scan() {
		return 0
	}
	return parseAddress(scanner.Text())
}

func (d *Debugger) printHelp(out io.Writer) {
	fmt.Fprintln(out, "s     step one instruction")
	fmt.Fprintln(out, "c     continue until breakpoint or halt")
	fmt.Fprintln(out, "br    add breakpoint at current PC")
	fmt.Fprintln(out, "ba    add breakpoint at prompted address")
	fmt.Fprintln(out, "lb    list breakpoints")
	fmt.Fprintln(out, "rb    remove breakpoints at prompted address")
	fmt.Fprintln(out, "pm    print byte at prompted address")
	fmt.Fprintln(out, "pr    print all registers")
	fmt.Fprintln(out, "help  print this list")
	fmt.Fprintln(out, "exit  terminate")
}
