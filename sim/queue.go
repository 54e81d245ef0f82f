package sim

// EventQueue is a min-heap ordered by (Due, Priority, seq).
// Implements heap.Interface.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []*Event

func (q EventQueue) Len() int { return len(q) }

func (q EventQueue) Less(i, j int) bool {
	if q[i].Due != q[j].Due {
		return q[i].Due < q[j].Due
	}
	if q[i].Priority != q[j].Priority {
		return q[i].Priority < q[j].Priority
	}
	// FIFO among equal (Due, Priority): which pod observes which node state
	// depends on it.
	return q[i].seq < q[j].seq
}

func (q EventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *EventQueue) Push(x any) {
	*q = append(*q, x.(*Event))
}

func (q *EventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Peek returns the next event without removing it, or nil if empty.
func (q EventQueue) Peek() *Event {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}
