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
	"fmt"
	"runtime"

	"reflectvm/internal/rvmlog"
	"reflectvm/pkg/isa"
)

// Step performs one fetch/decode/execute cycle. It returns
// ErrHalted if the R flag was already clear, an *InvalidOpcodeError
// if the fetched byte names no instruction (execution still advances
// past it so the caller can keep stepping), or a *DivideByZeroError
// if div/mod executed with a zero divisor (likewise non-fatal).
func (v *VM) Step() (err error) {
	if !v.running {
		return ErrHalted
	}

	var pc uint16
	var window [4]byte
	var in isa.Instruction

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if re, ok := r.(runtime.Error); !ok || re.Error() != "runtime error: integer divide by zero" {
			panic(r)
		}
		v.PC = pc + uint16(in.Length)
		err = &DivideByZeroError{PC: pc, Opcode: window[0]}
	}()

	pc = v.PC
	window = v.fetchWindow(pc)
	in = isa.Decode(window, pc)

	v.RegD = in.RegD
	v.RegS = in.RegS
	v.LastOpcode = window[0]
	v.LastValid = in.Valid
	v.haveStepped = true

	if !in.Valid {
		rvmlog.Log(fmt.Sprintf("invalid opcode %#02x at pc=%#04x", window[0], pc))
		v.PC = pc + 2
		return &InvalidOpcodeError{PC: pc, Opcode: window[0]}
	}

	v.execute(in)
	return nil
}

// Run steps the VM until the R flag clears. A non-fatal error from Step
// is logged and execution continues — matching the reference's "keep
// running after an undefined opcode" behavior.
func (v *VM) Run() {
	for v.running {
		if err := v.Step(); err != nil {
			rvmlog.Log(err.Error())
		}
	}
}

func (v *VM) execute(in isa.Instruction) {
	nextPC := in.PC + uint16(in.Length)

	switch in.Opcode {
	case isa.OpNop:

	case isa.OpMovRR:
		v.Reg[in.RegD] = v.Reg[in.RegS]
	case isa.OpMovRImm8:
		v.Reg[in.RegD] = in.Imm8
	case isa.OpMovMemR:
		v.writeMem(in.Imm16, v.Reg[in.RegS])
	case isa.OpMovRMem:
		v.Reg[in.RegD] = v.readMem(in.Imm16)
	case isa.OpMovPairImm:
		v.Reg[in.RegD] = uint8(in.Imm16 >> 8)
		v.Reg[in.RegS] = uint8(in.Imm16)
	case isa.OpMovIndImm8:
		v.writeMem(v.Pair(in.RegD, in.RegS), in.Imm8)
	case isa.OpMovIndR:
		v.writeMem(v.Pair(in.RegD, in.RegS), v.Reg[in.RegC])
	case isa.OpMovRInd:
		v.Reg[in.RegC] = v.readMem(v.Pair(in.RegD, in.RegS))

	case isa.OpHlt:
		v.running = false

	case isa.OpAdd:
		v.Reg[in.RegD] += v.Reg[in.RegS]
		v.zero = v.Reg[in.RegD] == 0
	case isa.OpSub:
		v.Reg[in.RegD] -= v.Reg[in.RegS]
		v.zero = v.Reg[in.RegD] == 0
	case isa.OpInc:
		v.Reg[in.RegD]++
		v.zero = v.Reg[in.RegD] == 0
	case isa.OpDec:
		v.Reg[in.RegD]--
		v.zero = v.Reg[in.RegD] == 0
	case isa.OpCmp:
		v.zero = v.Reg[in.RegD] == v.Reg[in.RegS]
	case isa.OpCmpImm8:
		v.zero = v.Reg[in.RegD] == in.Imm8

	case isa.OpJmp:
		nextPC = in.Imm16
	case isa.OpJz:
		if v.zero {
			nextPC = in.Imm16
		}
	case isa.OpJnz:
		if !v.zero {
			nextPC = in.Imm16
		}
	case isa.OpJmpInd:
		nextPC = v.Pair(in.RegD, in.RegS)
	case isa.OpJzInd:
		if v.zero {
			nextPC = v.Pair(in.RegD, in.RegS)
		}
	case isa.OpJnzInd:
		if !v.zero {
			nextPC = v.Pair(in.RegD, in.RegS)
		}

	case isa.OpCall:
		ret := nextPC
		v.push(uint8(ret >> 8))
		v.push(uint8(ret))
		nextPC = in.Imm16
	case isa.OpCallInd:
		ret := nextPC
		v.push(uint8(ret >> 8))
		v.push(uint8(ret))
		nextPC = v.Pair(in.RegD, in.RegS)
	case isa.OpRet:
		lo := v.pop()
		hi := v.pop()
		nextPC = uint16(hi)<<8 | uint16(lo)

	case isa.OpPush:
		v.push(v.Reg[in.RegS])
	case isa.OpPop:
		v.Reg[in.RegD] = v.pop()
	case isa.OpPushImm8:
		v.push(in.Imm8)

	case isa.OpAnd:
		v.Reg[in.RegD] &= v.Reg[in.RegS]
	case isa.OpOr:
		v.Reg[in.RegD] |= v.Reg[in.RegS]
	case isa.OpXor:
		v.Reg[in.RegD] ^= v.Reg[in.RegS]
	case isa.OpMul:
		v.Reg[in.RegD] *= v.Reg[in.RegS]
	case isa.OpMulImm8:
		v.Reg[in.RegD] *= in.Imm8

	case isa.OpDiv:
		v.Reg[in.RegD] /= v.Reg[in.RegS]
	case isa.OpDivImm8:
		v.Reg[in.RegD] /= in.Imm8
	case isa.OpMod:
		v.zero = v.Reg[in.RegD]%v.Reg[in.RegS] == 0
	case isa.OpModImm8:
		v.zero = v.Reg[in.RegD]%in.Imm8 == 0

	case isa.OpSys:
		v.syscall(in)

	default:
		panic(fmt.Sprintf("vm: execute: unhandled valid opcode %#02x", uint8(in.Opcode)))
	}

	v.PC = nextPC
}

// syscall dispatches the eight defined sub-codes of the sys vector.
// Sub-codes outside 0x00-0x07 are a deliberate no-op, per the
// reference's silent-ignore behavior.
func (v *VM) syscall(in isa.Instruction) {
	sub := in.Imm8
	if !isa.SysValid(sub) {
		return
	}

	if isa.SysUsesRegisterPair(sub) {
		addr := v.Pair(in.RegD, in.RegS)
		switch sub {
		case isa.SysPutCharAt:
			fmt.Fprintf(v.Stdout, "%c", v.readMem(addr))
		case isa.SysGetCharAt:
			v.writeMem(addr, v.readChar())
		case isa.SysPutIntAt:
			fmt.Fprintf(v.Stdout, "%d", v.readMem(addr))
		case isa.SysGetIntAt:
			v.writeMem(addr, v.readInt())
		}
		return
	}

	switch sub {
	case isa.SysPutChar:
		fmt.Fprintf(v.Stdout, "%c", v.pop())
	case isa.SysGetChar:
		v.push(v.readChar())
	case isa.SysPutInt:
		fmt.Fprintf(v.Stdout, "%d", v.pop())
	case isa.SysGetInt:
		v.push(v.readInt())
	}
}

// readChar reads a single byte from Stdin. On read error (including
// EOF) it returns 0; the VM has no way to signal stdin exhaustion back
// to a running program.
func (v *VM) readChar() uint8 {
	var buf [1]byte
	if _, err := v.Stdin.Read(buf[:]); err != nil {
		return 0
	}
	return buf[0]
}

// readInt scans one decimal integer from Stdin, truncated to 8 bits.
// On parse or read error it returns 0.
func (v *VM) readInt() uint8 {
	var n int
	if _, err := fmt.Fscan(v.Stdin, &n); err != nil {
		return 0
	}
	return uint8(n)
}
