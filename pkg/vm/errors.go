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

package vm

import (
	"errors"
	"fmt"
)

// ErrImageTooLarge is returned by LoadImage when the supplied image
// exceeds the 65,536-byte address space.
var ErrImageTooLarge = errors.New("vm: image exceeds 65536 bytes")

// ErrHalted is returned by Step when the VM's R flag is already clear.
var ErrHalted = errors.New("vm: execution already halted")

// InvalidOpcodeError reports an attempt to execute a byte outside the
// defined opcode range. It is non-fatal: Step logs it as a diagnostic
// and the caller is free to keep calling Step, matching the reference
// interpreter's "continue fetching" behavior for undefined opcodes.
type InvalidOpcodeError struct {
	PC     uint16
	Opcode uint8
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("vm: invalid opcode %#02x at pc=%#04x", e.Opcode, e.PC)
}

// DivideByZeroError reports a div/mod by a zero operand. The VM
// recovers from the underlying panic and keeps running; it does not
// clear the R flag.
type DivideByZeroError struct {
	PC     uint16
	Opcode uint8
}

func (e *DivideByZeroError) Error() string {
	return fmt.Sprintf("vm: divide by zero executing opcode %#02x at pc=%#04x", e.Opcode, e.PC)
}
