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

// Package isa is the canonical enumeration of the ReflectVM instruction
// set: opcodes, operand shapes, encoded lengths, control-flow classes,
// and mnemonics. The execution engine (pkg/vm) and the disassembler
// (pkg/disasm) both read this table instead of keeping their own copies,
// so a change to the ISA can never make the two tools disagree about
// what an opcode means.
package isa

// Opcode identifies one of the 38 defined ReflectVM instructions.
type Opcode uint8

// The full opcode range. Any byte outside [OpNop, OpModImm8] is not a
// valid instruction.
const (
	OpNop        Opcode = 0x00
	OpMovRR      Opcode = 0x01
	OpMovRImm8   Opcode = 0x02
	OpMovMemR    Opcode = 0x03
	OpMovRMem    Opcode = 0x04
	OpMovPairImm Opcode = 0x05
	OpMovIndImm8 Opcode = 0x06
	OpMovIndR    Opcode = 0x07
	OpMovRInd    Opcode = 0x08
	OpHlt        Opcode = 0x09
	OpAdd        Opcode = 0x0A
	OpSub        Opcode = 0x0B
	OpInc        Opcode = 0x0C
	OpDec        Opcode = 0x0D
	OpCmp        Opcode = 0x0E
	OpCmpImm8    Opcode = 0x0F
	OpJmp        Opcode = 0x10
	OpJz         Opcode = 0x11
	OpJnz        Opcode = 0x12
	OpJmpInd     Opcode = 0x13
	OpJzInd      Opcode = 0x14
	OpJnzInd     Opcode = 0x15
	OpCall       Opcode = 0x16
	OpCallInd    Opcode = 0x17
	OpRet        Opcode = 0x18
	OpPush       Opcode = 0x19
	OpPop        Opcode = 0x1A
	OpPushImm8   Opcode = 0x1B
	OpAnd        Opcode = 0x1C
	OpOr         Opcode = 0x1D
	OpXor        Opcode = 0x1E
	OpMul        Opcode = 0x1F
	OpSys        Opcode = 0x20
	OpDiv        Opcode = 0x21
	OpMulImm8    Opcode = 0x22
	OpDivImm8    Opcode = 0x23
	OpMod        Opcode = 0x24
	OpModImm8    Opcode = 0x25

	// OpcodeCount is the number of defined opcodes, one past the
	// highest valid opcode value.
	OpcodeCount = int(OpModImm8) + 1
)

// Class is the disassembler's per-opcode control-flow tag. It governs
// whether the reachability sweep continues along fall-through, enqueues
// a branch target, or stops following a path.
type Class string

const (
	// ClassFallThrough instructions continue the sweep at pc+length.
	ClassFallThrough Class = "fall-through"
	// ClassUnconditionalBranch (jmp $imm16) enqueues its target and
	// stops the current sweep path.
	ClassUnconditionalBranch Class = "unconditional-branch"
	// ClassConditionalBranch (jz/jnz $imm16) enqueues its target and
	// continues at pc+length.
	ClassConditionalBranch Class = "conditional-branch"
	// ClassCall (call $imm16) enqueues its target and continues at
	// pc+length.
	ClassCall Class = "call"
	// ClassReturn (ret) stops the sweep.
	ClassReturn Class = "return"
	// ClassHalt (hlt) stops the sweep.
	ClassHalt Class = "halt"
	// ClassIndirectBranch covers the four register-pair-target forms
	// (jmp/jz/jnz/call rd:rs); the target is unknown statically, so
	// the sweep treats all four as fall-through.
	ClassIndirectBranch Class = "indirect-branch"
)

// Entry is one row of the ISA table.
type Entry struct {
	Mnemonic string
	Length   uint8
	Class    Class
}

// Table is the canonical opcode table, indexed by Opcode.
var Table = [OpcodeCount]Entry{
	OpNop:        {"nop", 2, ClassFallThrough},
	OpMovRR:      {"mov", 2, ClassFallThrough},
	OpMovRImm8:   {"mov", 3, ClassFallThrough},
	OpMovMemR:    {"mov", 4, ClassFallThrough},
	OpMovRMem:    {"mov", 4, ClassFallThrough},
	OpMovPairImm: {"mov", 4, ClassFallThrough},
	OpMovIndImm8: {"mov", 3, ClassFallThrough},
	OpMovIndR:    {"mov", 3, ClassFallThrough},
	OpMovRInd:    {"mov", 3, ClassFallThrough},
	OpHlt:        {"hlt", 2, ClassHalt},
	OpAdd:        {"add", 2, ClassFallThrough},
	OpSub:        {"sub", 2, ClassFallThrough},
	OpInc:        {"inc", 2, ClassFallThrough},
	OpDec:        {"dec", 2, ClassFallThrough},
	OpCmp:        {"cmp", 2, ClassFallThrough},
	OpCmpImm8:    {"cmp", 3, ClassFallThrough},
	OpJmp:        {"jmp", 4, ClassUnconditionalBranch},
	OpJz:         {"jz", 4, ClassConditionalBranch},
	OpJnz:        {"jnz", 4, ClassConditionalBranch},
	OpJmpInd:     {"jmp", 2, ClassIndirectBranch},
	OpJzInd:      {"jz", 2, ClassIndirectBranch},
	OpJnzInd:     {"jnz", 2, ClassIndirectBranch},
	OpCall:       {"call", 4, ClassCall},
	OpCallInd:    {"call", 2, ClassIndirectBranch},
	OpRet:        {"ret", 2, ClassReturn},
	OpPush:       {"push", 2, ClassFallThrough},
	OpPop:        {"pop", 2, ClassFallThrough},
	OpPushImm8:   {"push", 3, ClassFallThrough},
	OpAnd:        {"and", 2, ClassFallThrough},
	OpOr:         {"or", 2, ClassFallThrough},
	OpXor:        {"xor", 2, ClassFallThrough},
	OpMul:        {"mul", 2, ClassFallThrough},
	OpSys:        {"sys", 3, ClassFallThrough},
	OpDiv:        {"div", 2, ClassFallThrough},
	OpMulImm8:    {"mul", 3, ClassFallThrough},
	OpDivImm8:    {"div", 3, ClassFallThrough},
	OpMod:        {"mod", 2, ClassFallThrough},
	OpModImm8:    {"mod", 3, ClassFallThrough},
}

// Valid reports whether op falls within the defined opcode range.
func Valid(op uint8) bool {
	return int(op) < OpcodeCount
}

// Lookup returns the table entry for op and whether op is defined.
func Lookup(op uint8) (Entry, bool) {
	if !Valid(op) {
		return Entry{}, false
	}
	return Table[op], true
}

// System-call sub-codes for opcode 0x20 (sys).
const (
	SysPutChar   uint8 = 0x00
	SysGetChar   uint8 = 0x01
	SysPutCharAt uint8 = 0x02
	SysGetCharAt uint8 = 0x03
	SysPutInt    uint8 = 0x04
	SysGetInt    uint8 = 0x05
	SysPutIntAt  uint8 = 0x06
	SysGetIntAt  uint8 = 0x07
)

// SysValid reports whether sub is one of the eight defined system-call
// sub-codes. Sub-codes outside this range are, per spec, a no-op at
// execution time and rendered as raw data by the disassembler.
func SysValid(sub uint8) bool {
	return sub <= SysGetIntAt
}

// SysUsesRegisterPair reports whether sub-code sub addresses memory via
// the rd:rs register pair (sub-codes 2, 3, 6, 7) as opposed to the
// stack (sub-codes 0, 1, 4, 5).
func SysUsesRegisterPair(sub uint8) bool {
	switch sub {
	case SysPutCharAt, SysGetCharAt, SysPutIntAt, SysGetIntAt:
		return true
	default:
		return false
	}
}
