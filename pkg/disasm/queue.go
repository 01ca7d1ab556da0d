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

package disasm

// addrQueue is the sweep's worklist: a FIFO of pending entry addresses.
// Backed by a growable slice with a read index rather than the
// reference's singly-linked list — addresses are only ever appended
// and drained front-to-back, so a slice needs no node allocation per
// entry.
type addrQueue struct {
	items []uint16
	head  int
}

// newAddrQueue returns an empty worklist.
func newAddrQueue() *addrQueue {
	return &addrQueue{}
}

// push enqueues addr at the back of the worklist.
func (q *addrQueue) push(addr uint16) {
	q.items = append(q.items, addr)
}

// pop removes and returns the address at the front of the worklist.
// It panics if the queue is empty; callers must check empty() first.
func (q *addrQueue) pop() uint16 {
	addr := q.items[q.head]
	q.head++
	return addr
}

// empty reports whether the worklist has no more pending addresses.
func (q *addrQueue) empty() bool {
	return q.head >= len(q.items)
}
