package threadpool

import (
	"sync"

	"github.com/eapache/queue"
)

// jobQueue is an unbounded thread-safe FIFO of Jobs.
//
// One instance serves as the pool's global queue, and each worker
// owns another as its private queue. Jobs enqueued by a single
// producer are dequeued in submission order; concurrent enqueue and
// dequeue never lose or duplicate an entry.
//
// A capacity-1 notify channel carries wakeups to the single consumer
// (the scheduler for the global queue, the owning worker for a
// private queue). The consumer selects on wake() and then drains via
// tryDequeue until empty; a stale token only causes one cheap
// re-check.
type jobQueue struct {
	mu     sync.Mutex
	buf    *queue.Queue
	closed bool

	notify chan struct{}
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		buf:    queue.New(),
		notify: make(chan struct{}, 1),
	}
}

// enqueue appends a job to the tail and wakes the consumer. It
// reports false if the queue has been closed, in which case the job
// was not stored.
func (q *jobQueue) enqueue(j Job) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.buf.Add(j)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// tryDequeue removes and returns the head without blocking.
func (q *jobQueue) tryDequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.buf.Length() == 0 {
		return Job{}, false
	}
	return q.buf.Remove().(Job), true
}

// length is a point-in-time snapshot, racy by nature; it is meant as
// a load signal, not a precise guarantee.
func (q *jobQueue) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length()
}

// wake returns the channel the consumer blocks on while the queue is
// empty.
func (q *jobQueue) wake() <-chan struct{} { return q.notify }

// close marks the queue as no longer accepting jobs, discards
// whatever is still buffered, and returns the discarded count.
// Closing and enqueue are serialized by the queue mutex, so a job is
// either stored before the close and counted here, or rejected.
func (q *jobQueue) close() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	n := q.buf.Length()
	for q.buf.Length() > 0 {
		q.buf.Remove()
	}
	return n
}
