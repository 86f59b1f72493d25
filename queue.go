package peripheral

import "sync"

// Update identifies a GATT attribute whose value changed: the D-Bus
// object path of the characteristic or descriptor and the interface
// name to signal on. Entries are opaque to the queue; it never
// deduplicates them.
type Update struct {
	ObjectPath    string
	InterfaceName string
}

// UpdateQueue decouples arbitrary producer goroutines reporting value
// changes from the single consumer that emits change signals. Entries
// are pushed at the front and popped from the back, so the consumer
// sees them in the order they were reported — GATT clients can be
// sensitive to notification ordering for dependent attributes (a length
// field before its payload, say). One mutex guards every operation, so
// pushes from concurrent goroutines land in a single total order.
type UpdateQueue struct {
	mu sync.Mutex
	// back of the queue (oldest entry) is entries[0]; pushes append.
	entries []Update

	wake chan struct{}
}

func NewUpdateQueue() *UpdateQueue {
	return &UpdateQueue{wake: make(chan struct{}, 1)}
}

// PushFront adds an entry at the front of the queue and kicks the
// consumer.
func (q *UpdateQueue) PushFront(objectPath, interfaceName string) {
	q.mu.Lock()
	q.entries = append(q.entries, Update{ObjectPath: objectPath, InterfaceName: interfaceName})
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest entry. With keep set, the entry is
// returned but left in place, supporting peek-then-commit consumers.
// The second return is false when the queue is empty.
func (q *UpdateQueue) Pop(keep bool) (Update, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return Update{}, false
	}
	u := q.entries[0]
	if !keep {
		q.entries = q.entries[1:]
	}
	return u, true
}

// Len returns the number of entries waiting in the queue.
func (q *UpdateQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Empty reports whether the queue holds no entries.
func (q *UpdateQueue) Empty() bool { return q.Len() == 0 }

// Clear removes every entry present when the lock is acquired. Entries
// pushed concurrently with the clear may be retained; racing producers
// never observe a torn or duplicated entry.
func (q *UpdateQueue) Clear() {
	q.mu.Lock()
	q.entries = nil
	q.mu.Unlock()
}

// Wake returns a channel that receives after a push. It has a one-slot
// buffer: a receive means "the queue may hold entries", and the
// consumer drains with Pop until empty.
func (q *UpdateQueue) Wake() <-chan struct{} { return q.wake }
