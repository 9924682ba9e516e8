package notifications

import (
	"sync"
	"time"
)

// Queue buffers notifications produced inside a database transaction.
// Flush hands them to the hub and must only be called after the transaction
// has committed; Discard drops them on rollback.
type Queue struct {
	mu      sync.Mutex
	pending []Notification
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Publish(n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()
}

func (q *Queue) Flush() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, n := range pending {
		Broadcast(n)
	}
}

func (q *Queue) Discard() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
