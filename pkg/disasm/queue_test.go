package disasm

import "testing"

func TestQueueFIFOOrder(t *testing.T) {
	q := newAddrQueue()
	q.push(3)
	q.push(1)
	q.push(4)

	var got []uint16
	for !q.empty() {
		got = append(got, q.pop())
	}
	want := []uint16{3, 1, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQueueEmpty(t *testing.T) {
	q := newAddrQueue()
	if !q.empty() {
		t.Error("new queue should be empty")
	}
	q.push(0)
	if q.empty() {
		t.Error("queue with one item should not be empty")
	}
	q.pop()
	if !q.empty() {
		t.Error("queue should be empty after draining")
	}
}
