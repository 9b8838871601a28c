package store

import "time"

// PendingOp records one mutation performed while disconnected (or while a
// drain was already in flight). Payload holds the optimistic entity for
// create/update; delete needs only the id.
type PendingOp struct {
	ID         string
	Kind       MutationKind
	Payload    any
	EnqueuedAt time.Time
}

// offlineQueue is a plain FIFO. It never deduplicates or merges: a later
// update to a temp-created entity is queued as a second operation against
// the same temp id. The queue lives in memory only and does not survive a
// restart.
type offlineQueue struct {
	ops []PendingOp
}

func (q *offlineQueue) enqueue(op PendingOp) {
	q.ops = append(q.ops, op)
}

func (q *offlineQueue) peek() (PendingOp, bool) {
	if len(q.ops) == 0 {
		return PendingOp{}, false
	}
	return q.ops[0], true
}

func (q *offlineQueue) popFront() {
	if len(q.ops) > 0 {
		q.ops = q.ops[1:]
	}
}

func (q *offlineQueue) size() int {
	return len(q.ops)
}

func (q *offlineQueue) snapshot() []PendingOp {
	return append([]PendingOp(nil), q.ops...)
}
