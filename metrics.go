package threadpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the pool to report submission,
// scheduling, and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted increments the submitted jobs counter.
	IncSubmitted()

	// IncAssigned increments the counter of jobs moved from the
	// global queue to a worker's private queue.
	IncAssigned()

	// IncExecuted increments the executed jobs counter.
	IncExecuted()

	// AddAbandoned adds n to the counter of jobs discarded at
	// teardown without executing.
	AddAbandoned(n int64)
}

// AtomicMetrics is a lock-free metrics implementation backed by
// atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	assigned atomic.Uint64

	_ [56]byte

	executed atomic.Uint64

	_ [56]byte

	abandoned atomic.Int64
}

// Submitted returns the total number of submitted jobs.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Assigned returns the total number of jobs handed to workers.
func (m *AtomicMetrics) Assigned() uint64 { return m.assigned.Load() }

// Executed returns the total number of executed jobs.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Abandoned returns the total number of jobs discarded at teardown.
func (m *AtomicMetrics) Abandoned() int64 { return m.abandoned.Load() }

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }

func (m *AtomicMetrics) IncAssigned() { m.assigned.Add(1) }

func (m *AtomicMetrics) IncExecuted() { m.executed.Add(1) }

func (m *AtomicMetrics) AddAbandoned(n int64) { m.abandoned.Add(n) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards all
// metric updates.
//
// It can be used when metrics collection is disabled and zero
// overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted() {}

func (m *NoopMetrics) IncAssigned() {}

func (m *NoopMetrics) IncExecuted() {}

func (m *NoopMetrics) AddAbandoned(n int64) {}
