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

// Package debugger implements the interactive REPL driver: single
// stepping, run-to-breakpoint, register/memory inspection, and the
// breakpoint list.
package debugger

import "strings"

// Command is one parsed REPL input line. Each concrete command is its
// own type rather than a closed enum, so adding a command means adding
// a type and a case in ParseCommand, not threading a new string
// constant through a switch at every call site.
type Command interface {
	isCommand()
}

type (
	// Step runs one fetch/decode/execute cycle.
	Step struct{}
	// Continue runs until a breakpoint or halt.
	Continue struct{}
	// InsertBreakpointHere adds a breakpoint at the current PC.
	InsertBreakpointHere struct{}
	// InsertBreakpointAt adds a breakpoint at a prompted address.
	InsertBreakpointAt struct{}
	// ListBreakpoints prints every breakpoint address.
	ListBreakpoints struct{}
	// RemoveBreakpoint removes every breakpoint matching a prompted
	// address.
	RemoveBreakpoint struct{}
	// PrintMemory prints the byte at a prompted address.
	PrintMemory struct{}
	// PrintRegisters prints all 16 registers.
	PrintRegisters struct{}
	// Help prints the command list.
	Help struct{}
	// Exit terminates the REPL.
	Exit struct{}
	// Unknown is any input that matches no known command.
	Unknown struct{ Input string }
)

func (Step) isCommand()                 {}
func (Continue) isCommand()             {}
func (InsertBreakpointHere) isCommand() {}
func (InsertBreakpointAt) isCommand()   {}
func (ListBreakpoints) isCommand()      {}
func (RemoveBreakpoint) isCommand()     {}
func (PrintMemory) isCommand()          {}
func (PrintRegisters) isCommand()       {}
func (Help) isCommand()                 {}
func (Exit) isCommand()                 {}
func (Unknown) isCommand()              {}

// ParseCommand maps a line of REPL input to a Command. Surrounding
// whitespace is trimmed; matching is then exact, against the closed set
// of command words defined by the interface; anything else becomes
// Unknown.
func ParseCommand(line string) Command {
	switch strings.TrimSpace(line) {
	case "s":
		return Step{}
	case "c":
		return Continue{}
	case "br":
		return InsertBreakpointHere{}
	case "ba":
		return InsertBreakpointAt{}
	case "lb":
		return ListBreakpoints{}
	case "rb":
		return RemoveBreakpoint{}
	case "pm":
		return PrintMemory{}
	case "pr":
		return PrintRegisters{}
	case "help":
		return Help{}
	case "exit":
		return Exit{}
	default:
		return Unknown{Input: line}
	}
}
