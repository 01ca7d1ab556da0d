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

package isa

// Instruction is the decoded form of the 2-4 bytes starting at PC. Fields
// not used by a given opcode are left zero.
type Instruction struct {
	PC     uint16
	Opcode Opcode
	Valid  bool // false iff Opcode is outside the defined table
	Length uint8
	Class  Class

	// RegD and RegS are the high/low nibbles of byte 1, present for
	// every instruction (even ones that don't use them).
	RegD uint8
	RegS uint8

	// RegC is the third register index carried in byte 2 by the two
	// indirect-move forms (0x07, 0x08).
	RegC uint8

	// Imm8 holds the single-byte immediate for 3-byte opcodes that
	// carry one (mov $imm8 forms, cmp/push/mul/div/mod $imm8, and the
	// sys sub-code).
	Imm8 uint8

	// Imm16 holds the two-byte big-endian operand for 4-byte opcodes:
	// either an absolute address ($imm16 forms of mov/jmp/jz/jnz/call)
	// or the immediate loaded into a register pair (mov rd:rs,$imm16).
	Imm16 uint16
}

// Pair returns the 16-bit value of the instruction's rd:rs register
// pair as it would be read from VM register contents regD, regS.
func Pair(regD, regS uint8) uint16 {
	return uint16(regD)<<8 | uint16(regS)
}

// Decode interprets bytes as the instruction starting at pc. bytes must
// hold at least as many valid bytes as the opcode's length; callers
// near the end of the image pad the remainder with zero, per the
// decoder's length-aware contract. Decode never touches VM memory.
func Decode(bytes [4]byte, pc uint16) Instruction {
	op := Opcode(bytes[0])
	entry, ok := Lookup(bytes[0])
	if !ok {
		return Instruction{PC: pc, Opcode: op, Valid: false}
	}

	regD := bytes[1] >> 4
	regS := bytes[1] & 0x0F

	in := Instruction{
		PC:     pc,
		Opcode: op,
		Valid:  true,
		Length: entry.Length,
		Class:  entry.Class,
		RegD:   regD,
		RegS:   regS,
	}

	switch op {
	case OpMovIndR, OpMovRInd:
		in.RegC = bytes[2] & 0x0F
	case OpMovRImm8, OpMovIndImm8, OpCmpImm8, OpPushImm8, OpSys, OpMulImm8, OpDivImm8, OpModImm8:
		in.Imm8 = bytes[2]
	case OpMovMemR, OpMovRMem, OpMovPairImm, OpJmp, OpJz, OpJnz, OpCall:
		in.Imm16 = uint16(bytes[2])<<8 | uint16(bytes[3])
	}

	return in
}
