package disasm

import (
	"strings"
	"testing"

	"reflectvm/pkg/isa"
)

func TestSweepRejectsOversizedImage(t *testing.T) {
	big := make([]byte, 65537)
	if _, err := Sweep(big); err != ErrImageTooLarge {
		t.Fatalf("got err=%v, want ErrImageTooLarge", err)
	}
}

func TestSweepScenarioS3Reachability(t *testing.T) {
	image := []byte{0x10, 0x00, 0x00, 0x06, 0xDE, 0xAD, 0x00, 0x00, 0x00, 0x00}
	d, err := Sweep(image)
	if err != nil {
		t.Fatal(err)
	}

	want := map[uint16]string{
		0x0000: "jmp $0006",
		0x0006: "nop",
		0x0008: "nop",
	}
	for addr, text := range want {
		got, ok := d.Rendering[addr]
		if !ok {
			t.Errorf("address %#04x: no rendering, want %q", addr, text)
			continue
		}
		if got != text {
			t.Errorf("address %#04x: got %q, want %q", addr, got, text)
		}
	}

	for _, addr := range []uint16{0x0004, 0x0005} {
		if _, ok := d.Rendering[addr]; ok {
			t.Errorf("address %#04x should not be rendered", addr)
		}
		if d.Shadow[addr] {
			t.Errorf("address %#04x should not be marked consumed", addr)
		}
	}

	var out strings.Builder
	if err := d.Emit(&out); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{
		";; 0x0000:\njmp $0006\n\n",
		";; 0x0004:\ndb DE\n\n",
		";; 0x0005:\ndb AD\n\n",
		";; 0x0006:\nnop\n\n",
		";; 0x0008:\nnop\n\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing block %q; got:\n%s", want, text)
		}
	}
}

func TestSweepScenarioS5StopsAfterSelfJump(t *testing.T) {
	image := []byte{0x10, 0x00, 0x00, 0x00}
	d, err := Sweep(image)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Rendering) != 1 {
		t.Fatalf("got %d rendered instructions, want 1", len(d.Rendering))
	}
	if got := d.Rendering[0]; got != "jmp $0000" {
		t.Errorf("got %q, want %q", got, "jmp $0000")
	}
}

func TestSweepScenarioS6IndirectCallFallsThrough(t *testing.T) {
	image := []byte{0x17, 0x12, 0x00, 0x00, 0x09, 0x00}
	d, err := Sweep(image)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Rendering) != 3 {
		t.Fatalf("got %d rendered instructions, want 3", len(d.Rendering))
	}
	for _, addr := range []uint16{0, 2, 4} {
		if _, ok := d.Rendering[addr]; !ok {
			t.Errorf("address %#04x should be rendered", addr)
		}
	}

	var out strings.Builder
	if err := d.Emit(&out); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "db ") {
		t.Errorf("output should contain no db records:\n%s", out.String())
	}
}

func TestSweepStopsOnUndecodableByte(t *testing.T) {
	image := []byte{0xFE, 0x00, 0x00, 0x00}
	d, err := Sweep(image)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Rendering) != 0 {
		t.Errorf("got %d rendered instructions, want 0", len(d.Rendering))
	}
	if d.Shadow[0] {
		t.Error("undecodable byte must not be marked consumed")
	}
}

func TestSweepLeavesInvalidSysSubcodeUnrendered(t *testing.T) {
	image := []byte{0x20, 0x00, 0xFF} // sys with sub-code 0xFF, undefined
	d, err := Sweep(image)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Rendering[0]; ok {
		t.Error("sys with an undefined sub-code should not be rendered")
	}

	var out strings.Builder
	if err := d.Emit(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "db 20") {
		t.Errorf("expected the opcode byte to be dumped as data, got:\n%s", out.String())
	}
}

func TestCoverageInvariant(t *testing.T) {
	image := []byte{0x10, 0x00, 0x00, 0x06, 0xDE, 0xAD, 0x00, 0x00, 0x00, 0x00}
	d, err := Sweep(image)
	if err != nil {
		t.Fatal(err)
	}

	spans := make(map[int]int) // start -> end (exclusive)
	for start := range d.Rendering {
		in := isa.Decode(fetchWindow(d.Image, start), start)
		spans[int(start)] = int(start) + int(in.Length)
	}

	for addr, consumed := range d.Shadow {
		if !consumed {
			continue
		}
		if _, startsHere := d.Rendering[uint16(addr)]; startsHere {
			continue
		}
		inSomeSpan := false
		for start, end := range spans {
			if addr > start && addr < end {
				inSomeSpan = true
				break
			}
		}
		if !inSomeSpan {
			t.Errorf("consumed continuation byte at %#04x covered by no instruction", addr)
		}
	}
}
