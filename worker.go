package threadpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Status describes a worker's position in its lifecycle.
type Status int32

const (
	// StatusInactive means the worker has not started yet or has
	// terminated. A terminated worker is never reused.
	StatusInactive Status = iota

	// StatusWaiting means the worker is idle, blocked for work.
	StatusWaiting

	// StatusWorking means the worker is currently executing a job.
	StatusWorking
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusWaiting:
		return "waiting"
	case StatusWorking:
		return "working"
	default:
		return "unknown"
	}
}

// WorkerThread is one worker bound to one private job queue.
//
// Status transitions are made only by the worker's own goroutine;
// external code can only request termination via Exit.
type WorkerThread struct {
	id    int
	pool  *ThreadPool
	queue *jobQueue

	status atomic.Int32

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	ready    chan struct{}
}

func newWorkerThread(id int, p *ThreadPool) *WorkerThread {
	return &WorkerThread{
		id:     id,
		pool:   p,
		queue:  newJobQueue(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
	}
}

// ID returns the worker's pool-unique identity, assigned sequentially
// at creation.
func (w *WorkerThread) ID() int { return w.id }

// Status returns the worker's current lifecycle status.
func (w *WorkerThread) Status() Status { return Status(w.status.Load()) }

// QueuedJobs returns the number of jobs assigned to this worker but
// not yet executed.
func (w *WorkerThread) QueuedJobs() int { return w.queue.length() }

// Exit requests termination. It is idempotent and takes effect at the
// worker's next wake-up; jobs still queued privately at that point
// are abandoned, not returned to the global queue.
func (w *WorkerThread) Exit() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *WorkerThread) alive() bool { return w.Status() != StatusInactive }

func (w *WorkerThread) start() { go w.run() }

func (w *WorkerThread) run() {
	if w.pool.opts.PinWorkers {
		w.bindOSThread()
	}

	w.status.Store(int32(StatusWaiting))
	close(w.ready)

	for {
		select {
		case <-w.stopCh:
			w.terminate()
			return
		case <-w.queue.wake():
			if stopped := w.serve(); stopped {
				w.terminate()
				return
			}
		}
	}
}

// serve executes private jobs until the queue is empty or an exit
// request is observed between jobs.
func (w *WorkerThread) serve() (stopped bool) {
	for {
		select {
		case <-w.stopCh:
			return true
		default:
		}

		job, ok := w.queue.tryDequeue()
		if !ok {
			return false
		}

		w.status.Store(int32(StatusWorking))
		w.runJob(job)
		w.status.Store(int32(StatusWaiting))

		// Completion is reported after the status flip and outside
		// any queue lock, so a blocked Wait caller reevaluates a
		// consistent predicate.
		w.pool.jobDone()
	}
}

func (w *WorkerThread) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(w.pool.ctx).Error("job panicked",
				lg.Int("worker_id", w.id),
				lg.Any("panic", r),
			)
			if w.pool.opts.OnJobPanic != nil {
				w.pool.opts.OnJobPanic(r)
			}
		}
	}()
	job.run()
}

func (w *WorkerThread) terminate() {
	w.status.Store(int32(StatusInactive))

	// Closing the queue rejects late assignments from the scheduler,
	// which retries them against the remaining workers.
	if n := w.queue.close(); n > 0 {
		w.pool.jobsAbandoned(n)
		lg.FromContext(w.pool.ctx).Warn("worker exited with queued jobs",
			lg.Int("worker_id", w.id),
			lg.Int("abandoned", n),
		)
	}
	close(w.done)
}

// bindOSThread locks the worker onto an OS thread, names the kernel
// thread after the pool's name prefix, and pins it to a CPU.
func (w *WorkerThread) bindOSThread() {
	runtime.LockOSThread()

	name := fmt.Sprintf("%s-%d", w.pool.opts.NamePrefix, w.id)
	if err := setThreadName(name); err != nil {
		lg.FromContext(w.pool.ctx).Warn("thread naming failed",
			lg.Int("worker_id", w.id),
			lg.Any("error", err),
		)
	}
	if err := PinToCPU(w.id % runtime.NumCPU()); err != nil {
		lg.FromContext(w.pool.ctx).Warn("cpu pinning failed",
			lg.Int("worker_id", w.id),
			lg.Any("error", err),
		)
	}
}
