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

// Package disasm implements the static disassembler: a reachability
// sweep over a raw VM image that tells code apart from data without
// ever executing it.
package disasm

import (
	"fmt"
	"io"

	"reflectvm/internal/rvmlog"
	"reflectvm/pkg/isa"
)

// Disassembly is the result of sweeping one image: which bytes were
// consumed as part of some instruction (the shadow map) and the
// rendered mnemonic text for each address that begins one (the
// rendering map).
type Disassembly struct {
	Image     []byte
	Shadow    []bool
	Rendering map[uint16]string
}

// Sweep performs the reachability-driven disassembly pass described by
// the architecture: starting from address 0, it follows fall-through,
// conditional branches, and calls, stopping at returns, halts,
// unconditional jumps, and anything it cannot decode.
func Sweep(image []byte) (*Disassembly, error) {
	if len(image) > 65536 {
		return nil, ErrImageTooLarge
	}

	d := &Disassembly{
		Image:     image,
		Shadow:    make([]bool, len(image)),
		Rendering: make(map[uint16]string),
	}

	q := newAddrQueue()
	q.push(0)

	for !q.empty() {
		d.sweepFrom(q.pop(), q)
	}

	return d, nil
}

// sweepFrom walks one path of the sweep starting at pc, enqueueing
// branch targets onto q as it discovers them, until the path is
// already rendered, runs off the end of the image, hits an
// undecodable byte, or reaches a control-flow instruction that ends
// the path (return, halt, unconditional jump).
func (d *Disassembly) sweepFrom(pc uint16, q *addrQueue) {
	for {
		if _, seen := d.Rendering[pc]; seen {
			return
		}
		if int(pc) >= len(d.Image) {
			return
		}

		window := fetchWindow(d.Image, pc)
		in := isa.Decode(window, pc)

		if !in.Valid {
			rvmlog.Log(fmt.Sprintf("disasm: undecodable byte %#02x at %#04x", window[0], pc))
			return
		}
		// An out-of-range sys sub-code is left unrendered by the
		// reference disassembler's sys case; treat it the same as an
		// undecodable instruction so the byte falls through to `db`.
		if in.Opcode == isa.OpSys && !isa.SysValid(in.Imm8) {
			return
		}

		d.Rendering[pc] = isa.Render(in)
		d.markConsumed(pc, in.Length)

		switch in.Class {
		case isa.ClassUnconditionalBranch:
			d.maybeEnqueue(q, in.Imm16)
			return
		case isa.ClassReturn, isa.ClassHalt:
			return
		case isa.ClassConditionalBranch, isa.ClassCall:
			d.maybeEnqueue(q, in.Imm16)
			pc = pc + uint16(in.Length)
		case isa.ClassFallThrough, isa.ClassIndirectBranch:
			pc = pc + uint16(in.Length)
		}
	}
}

func (d *Disassembly) markConsumed(pc uint16, length uint8) {
	for i := 0; i < int(length); i++ {
		idx := int(pc) + i
		if idx < len(d.Shadow) {
			d.Shadow[idx] = true
		}
	}
}

func (d *Disassembly) maybeEnqueue(q *addrQueue, target uint16) {
	if _, seen := d.Rendering[target]; !seen {
		q.push(target)
	}
}

// fetchWindow reads up to 4 bytes starting at pc, zero-padding
// positions that fall past the end of image. Plain int arithmetic is
// used for the index so that addresses near the top of a 64 KiB image
// never wrap the way a uint16 addition would.
func fetchWindow(image []byte, pc uint16) [4]byte {
	var w [4]byte
	for i := 0; i < 4; i++ {
		idx := int(pc) + i
		if idx < len(image) {
			w[i] = image[idx]
		}
	}
	return w
}

// Emit writes the disassembly listing: one three-line block per
// address that either begins a decoded instruction or was never
// consumed by one. Consumed continuation bytes produce no output.
func (d *Disassembly) Emit(w io.Writer) error {
	for addr := 0; addr < len(d.Image); addr++ {
		a := uint16(addr)
		if text, ok := d.Rendering[a]; ok {
			if _, err := fmt.Fprintf(w, ";; 0x%04X:\n%s\n\n", a, text); err != nil {
				return err
			}
			continue
		}
		if !d.Shadow[addr] {
			if _, err := fmt.Fprintf(w, ";; 0x%04X:\ndb %02X\n\n", a, d.Image[addr]); err != nil {
				return err
			}
		}
	}
	return nil
}
