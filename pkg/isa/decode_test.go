package isa

import "testing"

func TestDecodeInvalidOpcode(t *testing.T) {
	in := Decode([4]byte{0x26, 0, 0, 0}, 0)
	if in.Valid {
		t.Fatal("0x26 should decode as invalid")
	}
}

func TestDecodeRegisterNibbles(t *testing.T) {
	// mov r3,r7
	in := Decode([4]byte{byte(OpMovRR), 0x37, 0, 0}, 0x10)
	if !in.Valid {
		t.Fatal("expected valid decode")
	}
	if in.RegD != 0x3 || in.RegS != 0x7 {
		t.Errorf("got regD=%x regS=%x, want 3/7", in.RegD, in.RegS)
	}
	if in.Length != 2 || in.Class != ClassFallThrough {
		t.Errorf("unexpected length/class: %d %s", in.Length, in.Class)
	}
	if in.PC != 0x10 {
		t.Errorf("PC not preserved: got %#04x", in.PC)
	}
}

func TestDecodeImm8Forms(t *testing.T) {
	// mov r1,$AB
	in := Decode([4]byte{byte(OpMovRImm8), 0x10, 0xAB, 0}, 0)
	if in.Imm8 != 0xAB {
		t.Errorf("got imm8=%#02x, want 0xAB", in.Imm8)
	}
	if in.Length != 3 {
		t.Errorf("got length=%d, want 3", in.Length)
	}
}

func TestDecodeImm16AddressForms(t *testing.T) {
	// mov [$1234],r2 : opcode 03
	in := Decode([4]byte{byte(OpMovMemR), 0x02, 0x12, 0x34}, 0)
	if in.Imm16 != 0x1234 {
		t.Errorf("got imm16=%#04x, want 0x1234", in.Imm16)
	}
	if in.RegS != 0x2 {
		t.Errorf("got regS=%x, want 2", in.RegS)
	}
}

func TestDecodeRegisterPairImmediate(t *testing.T) {
	// mov rd:rs, $VVWW : opcode 05
	in := Decode([4]byte{byte(OpMovPairImm), 0xAB, 0x12, 0x34}, 0)
	if in.RegD != 0xA || in.RegS != 0xB {
		t.Errorf("got regD=%x regS=%x, want A/B", in.RegD, in.RegS)
	}
	if in.Imm16 != 0x1234 {
		t.Errorf("got imm16=%#04x, want 0x1234", in.Imm16)
	}
}

func TestDecodeThirdRegisterForms(t *testing.T) {
	// mov [rd:rs],rc : opcode 07, byte2 carries the third register index
	in := Decode([4]byte{byte(OpMovIndR), 0x12, 0x09, 0}, 0)
	if in.RegD != 0x1 || in.RegS != 0x2 {
		t.Errorf("got regD=%x regS=%x, want 1/2", in.RegD, in.RegS)
	}
	if in.RegC != 0x9 {
		t.Errorf("got regC=%x, want 9", in.RegC)
	}

	// mov rc,[rd:rs] : opcode 08
	in2 := Decode([4]byte{byte(OpMovRInd), 0x34, 0x0A, 0}, 0)
	if in2.RegC != 0xA {
		t.Errorf("got regC=%x, want A", in2.RegC)
	}
}

func TestDecodeSysSubcode(t *testing.T) {
	in := Decode([4]byte{byte(OpSys), 0x00, 0x04, 0}, 0)
	if in.Imm8 != 0x04 {
		t.Errorf("got sys subcode=%#02x, want 0x04", in.Imm8)
	}
	if in.Length != 3 {
		t.Errorf("got length=%d, want 3", in.Length)
	}
}

func TestDecodeBranchTargets(t *testing.T) {
	in := Decode([4]byte{byte(OpJmp), 0x00, 0x00, 0x06}, 0)
	if in.Imm16 != 0x0006 {
		t.Errorf("got target=%#04x, want 0x0006", in.Imm16)
	}
	if in.Class != ClassUnconditionalBranch {
		t.Errorf("got class=%s, want unconditional-branch", in.Class)
	}
}
