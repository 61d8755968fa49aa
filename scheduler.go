package threadpool

import (
	"sync"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// scheduler is a dedicated goroutine that:
//   - blocks while the global queue is empty
//   - moves each dequeued job to the least-loaded live worker
//   - retries with backoff when no worker is alive
//   - drains the global queue on shutdown
type scheduler struct {
	pool *ThreadPool

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newScheduler(p *ThreadPool) *scheduler {
	return &scheduler{
		pool:   p,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (s *scheduler) start() { go s.run() }

func (s *scheduler) run() {
	for {
		select {
		case <-s.stopCh:
			s.drain()
			close(s.done)
			return
		case <-s.pool.global.wake():
			s.dispatchPending()
		}
	}
}

// dispatchPending empties the global queue into worker queues.
func (s *scheduler) dispatchPending() {
	for {
		job, ok := s.pool.global.tryDequeue()
		if !ok {
			return
		}
		s.assign(job)
	}
}

// assign hands one job, already removed from the global queue, to the
// least-loaded live worker. A job in flight here must not be dropped
// while the pool is running: with no live worker the assignment is
// retried with backoff until a worker exists or the scheduler is
// stopped.
func (s *scheduler) assign(job Job) {
	bo := boff.New(s.pool.opts.Retry.Initial, s.pool.opts.Retry.Max, time.Now().UnixNano())

	for {
		// enqueue can still fail if the chosen worker terminated
		// after selection; the next round picks another one.
		if w := s.pool.withMinJobs(); w != nil && w.queue.enqueue(job) {
			s.pool.metrics.IncAssigned()
			return
		}

		select {
		case <-s.stopCh:
			// Teardown with no live worker left.
			s.pool.jobsAbandoned(1)
			lg.FromContext(s.pool.ctx).Warn("job abandoned at scheduler stop")
			return
		default:
		}

		timer := time.NewTimer(bo.Next())
		select {
		case <-timer.C:
		case <-s.stopCh:
			timer.Stop()
		}
	}
}

// drain assigns whatever is still in the global queue before the
// scheduler fully stops, so stopping cannot silently lose jobs that
// live workers could still take.
func (s *scheduler) drain() {
	for {
		job, ok := s.pool.global.tryDequeue()
		if !ok {
			return
		}
		s.assign(job)
	}
}

// destroy stops the loop and blocks until the drain has finished.
// Safe to call more than once.
func (s *scheduler) destroy() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
}
