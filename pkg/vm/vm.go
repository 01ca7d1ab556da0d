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

// Package vm implements the execution engine: the mutable machine state
// and the fetch/decode/execute loop that both the interpreter and the
// debugger drive.
package vm

import (
	"io"
	"os"

	"reflectvm/pkg/isa"
)

// MemoryCapacity is the size of the VM's flat address space.
const MemoryCapacity = 65536

// VM is the complete mutable state of one running machine. The zero
// value is not ready for use; call Reset or LoadImage first.
type VM struct {
	Reg [16]uint8
	Mem [MemoryCapacity]uint8

	PC uint16
	SP uint16

	zero    bool
	running bool

	// RegD and RegS are the decode fields of the most recently fetched
	// instruction, retained for introspection by callers.
	RegD uint8
	RegS uint8

	// LastOpcode is the opcode most recently executed by Step, used by
	// callers (the debugger REPL) to detect that hlt just ran.
	LastOpcode  uint8
	LastValid   bool
	haveStepped bool

	// Stdin and Stdout back the sys system-call vector. They default
	// to os.Stdin/os.Stdout in New but can be swapped for testing or
	// embedding.
	Stdin  io.Reader
	Stdout io.Writer
}

// New returns a freshly reset VM wired to the process's standard
// streams.
func New() *VM {
	v := &VM{Stdin: os.Stdin, Stdout: os.Stdout}
	v.Reset()
	return v
}

// Reset clears registers and memory, rewinds PC and SP to zero, clears
// the Z flag, and sets the R flag so the next Run/Step loop executes.
func (v *VM) Reset() {
	v.Reg = [16]uint8{}
	v.Mem = [MemoryCapacity]uint8{}
	v.PC = 0
	v.SP = 0
	v.zero = false
	v.running = true
	v.RegD = 0
	v.RegS = 0
	v.LastOpcode = 0
	v.LastValid = false
	v.haveStepped = false
}

// LoadImage resets the VM and copies image into memory starting at
// address 0. It rejects images larger than the address space.
func (v *VM) LoadImage(image []byte) error {
	if len(image) > MemoryCapacity {
		return ErrImageTooLarge
	}
	v.Reset()
	copy(v.Mem[:], image)
	return nil
}

// Zero reports the Z flag.
func (v *VM) Zero() bool { return v.zero }

// SetZero sets the Z flag.
func (v *VM) SetZero(z bool) { v.zero = z }

// Running reports the R flag.
func (v *VM) Running() bool { return v.running }

// SetRunning sets the R flag.
func (v *VM) SetRunning(r bool) { v.running = r }

// Halted reports whether the most successfully decoded instruction was
// hlt. Used by the debugger to print its halt notice.
func (v *VM) Halted() bool {
	return v.haveStepped && v.LastValid && isa.Opcode(v.LastOpcode) == isa.OpHlt
}

// Pair returns the 16-bit address formed by registers d and s, high
// byte first, per the architecture's register-pair convention.
func (v *VM) Pair(d, s uint8) uint16 {
	return isa.Pair(v.Reg[d&0x0F], v.Reg[s&0x0F])
}

// push writes b to the top of the downward-growing stack and
// decrements SP, wrapping modulo 65536.
func (v *VM) push(b uint8) {
	v.Mem[v.SP] = b
	v.SP--
}

// pop increments SP, wrapping modulo 65536, and reads the byte now at
// the top of the stack.
func (v *VM) pop() uint8 {
	v.SP++
	return v.Mem[v.SP]
}

// readMem reads a single byte at addr.
func (v *VM) readMem(addr uint16) uint8 {
	return v.Mem[addr]
}

// writeMem writes a single byte at addr.
func (v *VM) writeMem(addr uint16, val uint8) {
	v.Mem[addr] = val
}

// fetchWindow reads 4 bytes starting at pc. Because Mem is a fixed
// 65536-byte array, reads never run past its end: for the final few
// addresses, pc+k wraps modulo 65536 and reads from the start of
// memory, the same way the 16-bit PC itself wraps.
func (v *VM) fetchWindow(pc uint16) [4]byte {
	var w [4]byte
	for i := 0; i < 4; i++ {
		w[i] = v.Mem[uint16(int(pc)+i)]
	}
	return w
}
