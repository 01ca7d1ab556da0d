package vm

import (
	"bytes"
	"testing"
)

func TestLoadImageRejectsOversized(t *testing.T) {
	v := New()
	big := make([]byte, MemoryCapacity+1)
	if err := v.LoadImage(big); err != ErrImageTooLarge {
		t.Fatalf("got err=%v, want ErrImageTooLarge", err)
	}
}

func TestResetClearsState(t *testing.T) {
	v := New()
	v.Reg[3] = 42
	v.PC = 100
	v.SP = 50
	v.SetZero(true)
	v.Reset()
	if v.Reg[3] != 0 || v.PC != 0 || v.SP != 0 || v.Zero() {
		t.Error("Reset did not clear state")
	}
	if !v.Running() {
		t.Error("Reset should leave R flag set")
	}
}

func TestPushPopWrapAround(t *testing.T) {
	v := New()
	v.push(0xAB)
	if v.SP != 0xFFFF {
		t.Errorf("SP after first push = %#04x, want 0xffff", v.SP)
	}
	if v.Mem[0] != 0xAB {
		t.Errorf("Mem[0] = %#02x, want 0xab", v.Mem[0])
	}
	got := v.pop()
	if got != 0xAB {
		t.Errorf("pop() = %#02x, want 0xab", got)
	}
	if v.SP != 0 {
		t.Errorf("SP after matching pop = %#04x, want 0", v.SP)
	}
}

func TestPairReadsHighLowBytes(t *testing.T) {
	v := New()
	v.Reg[1] = 0x12
	v.Reg[2] = 0x34
	if got := v.Pair(1, 2); got != 0x1234 {
		t.Errorf("Pair(1,2) = %#04x, want 0x1234", got)
	}
}

func TestStepOnHaltedVM(t *testing.T) {
	v := New()
	v.SetRunning(false)
	if err := v.Step(); err != ErrHalted {
		t.Fatalf("got err=%v, want ErrHalted", err)
	}
}

func TestStepScenarioS1TinyArithmetic(t *testing.T) {
	v := New()
	image := []byte{0x02, 0x10, 0x05, 0x02, 0x21, 0x03, 0x0A, 0x12, 0x09, 0x00}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if v.Reg[1] != 0x08 || v.Reg[2] != 0x03 {
		t.Errorf("got reg1=%d reg2=%d, want 8/3", v.Reg[1], v.Reg[2])
	}
	if v.Running() {
		t.Error("VM should have halted")
	}
}

func TestStepScenarioS2ZeroFlagFromCompare(t *testing.T) {
	v := New()
	image := []byte{
		0x02, 0x10, 0x07, // mov r1,$07
		0x0F, 0x10, 0x07, // cmp r1,$07
		0x11, 0x00, 0x00, 0x0D, // jz $000D
		0x02, 0x20, 0xFF, // mov r2,$FF (skipped)
		0x09, 0x00, // hlt (address 0x0D)
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if v.Reg[1] != 7 || v.Reg[2] != 0 {
		t.Errorf("got reg1=%d reg2=%d, want 7/0", v.Reg[1], v.Reg[2])
	}
}

func TestStepScenarioS4CallRetRoundTrip(t *testing.T) {
	v := New()
	image := []byte{
		0x16, 0x00, 0x00, 0x06, // call $0006
		0x09, 0x00, // hlt (address 4)
		0x18, 0x00, // ret (address 6)
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if v.SP != 0 {
		t.Errorf("SP after call/ret = %#04x, want 0", v.SP)
	}
	// PC lands at 6: ret resumes execution at address 4 (the hlt), and
	// hlt, like every other 2-byte opcode, advances PC by its full
	// encoded length before the R flag stops the loop. See DESIGN.md
	// for why this differs from the narrative PC value in the scenario
	// this test is drawn from.
	if v.PC != 6 {
		t.Errorf("got PC=%#04x, want 0x0006", v.PC)
	}
}

func TestRoundTripPushPop(t *testing.T) {
	v := New()
	image := []byte{
		0x1B, 0x00, 0x2A, // push $2A
		0x1A, 0x30, // pop r3
		0x09, 0x00, // hlt
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	spBefore := v.SP
	v.Run()
	if v.Reg[3] != 0x2A {
		t.Errorf("reg3 = %#02x, want 0x2a", v.Reg[3])
	}
	if v.SP != spBefore {
		t.Errorf("SP = %#04x, want unchanged %#04x", v.SP, spBefore)
	}
}

func TestRoundTripRegisterPairImmediate(t *testing.T) {
	v := New()
	image := []byte{
		0x05, 0x12, 0xBE, 0xEF, // mov r1:r2,$BEEF
		0x09, 0x00,
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if got := v.Pair(1, 2); got != 0xBEEF {
		t.Errorf("Pair(1,2) = %#04x, want 0xbeef", got)
	}
}

func TestFlagLocality(t *testing.T) {
	v := New()
	// mov r1,r2 must not touch Z even though it was set.
	v.SetZero(true)
	image := []byte{
		0x01, 0x12, // mov r1,r2
		0x09, 0x00,
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.SetZero(true)
	v.Run()
	if !v.Zero() {
		t.Error("mov must not clear Z")
	}
}

func TestInvalidOpcodeIsNonFatal(t *testing.T) {
	v := New()
	image := []byte{0xFE, 0x00, 0x09, 0x00}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	if err := v.Step(); err == nil {
		t.Fatal("expected an InvalidOpcodeError")
	}
	if !v.Running() {
		t.Error("invalid opcode must not halt the VM")
	}
	v.Run()
	if v.Running() {
		t.Error("VM should have reached hlt and stopped")
	}
}

func TestDivideByZeroRecovered(t *testing.T) {
	v := New()
	// reg1 = 5, reg2 = 0, div r1,r2
	image := []byte{
		0x02, 0x10, 0x05,
		0x21, 0x12,
		0x09, 0x00,
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Step() // mov
	pcBeforeFault := v.PC
	err := v.Step()
	if err == nil {
		t.Fatal("expected a divide-by-zero error")
	}
	if _, ok := err.(*DivideByZeroError); !ok {
		t.Fatalf("got %T, want *DivideByZeroError", err)
	}
	if !v.Running() {
		t.Error("divide by zero must not halt the VM")
	}
	if v.PC == pcBeforeFault {
		t.Fatalf("PC did not advance past the faulting instruction, still at %#04x", v.PC)
	}
	if v.PC != pcBeforeFault+2 {
		t.Errorf("got PC=%#04x, want %#04x (faulting div's own length)", v.PC, pcBeforeFault+2)
	}
}

// TestDivideByZeroDoesNotHangRun guards against Step leaving PC frozen
// on the faulting instruction: if it did, Run would loop on the same
// div forever instead of reaching hlt.
func TestDivideByZeroDoesNotHangRun(t *testing.T) {
	v := New()
	image := []byte{
		0x02, 0x10, 0x05, // mov r1,$05
		0x21, 0x12, // div r1,r2 (r2 == 0)
		0x09, 0x00, // hlt
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if v.Running() {
		t.Fatal("Run should have reached hlt instead of looping on the divide fault")
	}
}

func TestSysPutChar(t *testing.T) {
	v := New()
	var out bytes.Buffer
	v.Stdout = &out
	image := []byte{
		0x1B, 0x00, 'A', // push 'A'
		0x20, 0x00, 0x00, // sys $00 (putchar)
		0x09, 0x00,
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if out.String() != "A" {
		t.Errorf("stdout = %q, want %q", out.String(), "A")
	}
}

func TestSysGetChar(t *testing.T) {
	v := New()
	v.Stdin = bytes.NewReader([]byte("Z"))
	image := []byte{
		0x20, 0x00, 0x01, // sys $01 (getchar)
		0x1A, 0x50, // pop r5
		0x09, 0x00,
	}
	if err := v.LoadImage(image); err != nil {
		t.Fatal(err)
	}
	v.Run()
	if v.Reg[5] != 'Z' {
		t.Errorf("reg5 = %q, want 'Z'", v.Reg[5])
	}
}
