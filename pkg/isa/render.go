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

import "fmt"

// reg formats a register index the way every mnemonic in this table
// does: "r" followed by a single lowercase hex digit.
func reg(idx uint8) string {
	return fmt.Sprintf("r%x", idx&0x0F)
}

// pair formats a register-pair operand "rd:rs".
func pair(d, s uint8) string {
	return fmt.Sprintf("%s:%s", reg(d), reg(s))
}

// Render produces the mnemonic text for a decoded, valid instruction.
// Callers are expected to have already checked in.Valid; Render panics
// on an invalid instruction since there is no mnemonic to produce for
// one (the disassembler renders those as `db` instead, bypassing
// Render entirely).
func Render(in Instruction) string {
	if !in.Valid {
		panic("isa: Render called on an invalid instruction")
	}

	switch in.Opcode {
	case OpNop:
		return "nop"
	case OpMovRR:
		return fmt.Sprintf("mov %s,%s", reg(in.RegD), reg(in.RegS))
	case OpMovRImm8:
		return fmt.Sprintf("mov %s,$%02X", reg(in.RegD), in.Imm8)
	case OpMovMemR:
		return fmt.Sprintf("mov [$%04X],%s", in.Imm16, reg(in.RegS))
	case OpMovRMem:
		return fmt.Sprintf("mov %s,[$%04X]", reg(in.RegD), in.Imm16)
	case OpMovPairImm:
		return fmt.Sprintf("mov %s,$%04X", pair(in.RegD, in.RegS), in.Imm16)
	case OpMovIndImm8:
		return fmt.Sprintf("mov [%s],$%02X", pair(in.RegD, in.RegS), in.Imm8)
	case OpMovIndR:
		return fmt.Sprintf("mov [%s],%s", pair(in.RegD, in.RegS), reg(in.RegC))
	case OpMovRInd:
		return fmt.Sprintf("mov %s,[%s]", reg(in.RegC), pair(in.RegD, in.RegS))
	case OpHlt:
		return "hlt"
	case OpAdd:
		return fmt.Sprintf("add %s,%s", reg(in.RegD), reg(in.RegS))
	case OpSub:
		return fmt.Sprintf("sub %s,%s", reg(in.RegD), reg(in.RegS))
	case OpInc:
		return fmt.Sprintf("inc %s", reg(in.RegD))
	case OpDec:
		return fmt.Sprintf("dec %s", reg(in.RegD))
	case OpCmp:
		return fmt.Sprintf("cmp %s,%s", reg(in.RegD), reg(in.RegS))
	case OpCmpImm8:
		return fmt.Sprintf("cmp %s,$%02X", reg(in.RegD), in.Imm8)
	case OpJmp:
		return fmt.Sprintf("jmp $%04X", in.Imm16)
	case OpJz:
		return fmt.Sprintf("jz $%04X", in.Imm16)
	case OpJnz:
		return fmt.Sprintf("jnz $%04X", in.Imm16)
	case OpJmpInd:
		return fmt.Sprintf("jmp %s", pair(in.RegD, in.RegS))
	case OpJzInd:
		return fmt.Sprintf("jz %s", pair(in.RegD, in.RegS))
	case OpJnzInd:
		return fmt.Sprintf("jnz %s", pair(in.RegD, in.RegS))
	case OpCall:
		return fmt.Sprintf("call $%04X", in.Imm16)
	case OpCallInd:
		return fmt.Sprintf("call %s", pair(in.RegD, in.RegS))
	case OpRet:
		return "ret"
	case OpPush:
		return fmt.Sprintf("push %s", reg(in.RegS))
	case OpPop:
		return fmt.Sprintf("pop %s", reg(in.RegD))
	case OpPushImm8:
		return fmt.Sprintf("push $%02X", in.Imm8)
	case OpAnd:
		return fmt.Sprintf("and %s,%s", reg(in.RegD), reg(in.RegS))
	case OpOr:
		return fmt.Sprintf("or %s,%s", reg(in.RegD), reg(in.RegS))
	case OpXor:
		return fmt.Sprintf("xor %s,%s", reg(in.RegD), reg(in.RegS))
	case OpMul:
		return fmt.Sprintf("mul %s,%s", reg(in.RegD), reg(in.RegS))
	case OpSys:
		if isSysRegisterPairForm(in.Imm8) {
			return fmt.Sprintf("sys %s, $%02X", pair(in.RegD, in.RegS), in.Imm8)
		}
		return fmt.Sprintf("sys $%02X", in.Imm8)
	case OpDiv:
		return fmt.Sprintf("div %s,%s", reg(in.RegD), reg(in.RegS))
	case OpMulImm8:
		return fmt.Sprintf("mul %s,$%02X", reg(in.RegD), in.Imm8)
	case OpDivImm8:
		return fmt.Sprintf("div %s,$%02X", reg(in.RegD), in.Imm8)
	case OpMod:
		return fmt.Sprintf("mod %s,%s", reg(in.RegD), reg(in.RegS))
	case OpModImm8:
		return fmt.Sprintf("mod %s,$%02X", reg(in.RegD), in.Imm8)
	default:
		panic(fmt.Sprintf("isa: Render: unhandled opcode %#02x", uint8(in.Opcode)))
	}
}

// isSysRegisterPairForm reports whether sys sub-code sub renders with
// an explicit rd:rs operand (sub-codes 2, 3, 6, 7) rather than the bare
// `sys $SS` form used by the stack-operand sub-codes.
func isSysRegisterPairForm(sub uint8) bool {
	return SysValid(sub) && SysUsesRegisterPair(sub)
}
