package threadpool

import (
	"context"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// ThreadPool owns a set of worker threads, the global job queue, the
// scheduler, and the completion state behind Wait.
//
// The id map, the key index, the global queue, each private queue,
// and the completion state are protected by separate critical
// sections; no code path holds two of them at once.
type ThreadPool struct {
	opts Options
	ctx  context.Context

	threadsMu sync.Mutex
	threads   map[int]*WorkerThread
	nextID    int

	keysMu sync.Mutex
	keys   map[string]int

	global *jobQueue
	sched  *scheduler

	waitMu   sync.Mutex
	waitCond *sync.Cond
	waiters  int
	inFlight atomic.Int64

	metrics MetricsPolicy

	destroyOnce sync.Once
	destroyed   atomic.Bool
}

// NewPool creates a pool with opts.Workers workers and starts the
// scheduler. It returns only after every worker has reached the
// waiting state, so jobs submitted immediately afterwards are picked
// up; readiness is signaled by each worker, not polled.
func NewPool(opts Options) *ThreadPool {
	opts.FillDefaults()

	p := &ThreadPool{
		opts:    opts,
		ctx:     context.Background(),
		threads: make(map[int]*WorkerThread),
		keys:    make(map[string]int),
		global:  newJobQueue(),
		metrics: opts.Metrics,
	}
	p.waitCond = sync.NewCond(&p.waitMu)

	workers := make([]*WorkerThread, 0, opts.Workers)
	for range opts.Workers {
		workers = append(workers, p.spawnThread())
	}
	for _, w := range workers {
		<-w.ready
	}

	p.sched = newScheduler(p)
	p.sched.start()

	lg.FromContext(p.ctx).Info("thread pool started",
		lg.Int("workers", opts.Workers),
		lg.String("name_prefix", opts.NamePrefix),
	)
	return p
}

var (
	defaultPool *ThreadPool
	defaultOnce sync.Once
)

// Default returns the process-wide shared pool, lazily constructed
// with exactly one worker on first use. It lives for the rest of the
// process and is never destroyed.
func Default() *ThreadPool {
	defaultOnce.Do(func() {
		defaultPool = NewPool(Options{Workers: 1})
	})
	return defaultPool
}

func (p *ThreadPool) spawnThread() *WorkerThread {
	p.threadsMu.Lock()
	// Destroy flips the flag before it snapshots this map, so a
	// worker registered under the lock while the flag is clear is
	// guaranteed to be seen, exited, and joined by Destroy.
	if p.destroyed.Load() {
		p.threadsMu.Unlock()
		return nil
	}
	id := p.nextID
	p.nextID++
	w := newWorkerThread(id, p)
	p.threads[id] = w
	p.threadsMu.Unlock()

	w.start()
	return w
}

// NewThread grows the pool by one anonymous worker and returns its
// handle once the worker is waiting for work. It returns nil on a
// destroyed pool.
func (p *ThreadPool) NewThread() *WorkerThread {
	w := p.spawnThread()
	if w == nil {
		lg.FromContext(p.ctx).Warn("thread requested on destroyed pool")
		return nil
	}
	<-w.ready
	return w
}

// AddJob wraps fn into a Job and enqueues it on the global queue.
// It returns immediately and never blocks the submitter. There is no
// synchronous error channel: a submission to a destroyed pool is
// dropped and logged.
func (p *ThreadPool) AddJob(fn func()) {
	p.addJob(NewJob(fn))
}

// AddJobArg is AddJob for a function plus an opaque argument; the
// pair is normalized to a closure before it reaches any queue.
func (p *ThreadPool) AddJobArg(fn func(any), arg any) {
	p.addJob(NewJobArg(fn, arg))
}

func (p *ThreadPool) addJob(job Job) {
	if !job.valid() {
		lg.FromContext(p.ctx).Warn("nil job func ignored")
		return
	}
	if p.destroyed.Load() {
		lg.FromContext(p.ctx).Warn("job submitted to destroyed pool, dropped")
		return
	}

	// The in-flight count covers a job from submission until it has
	// executed or been abandoned, wherever it is parked in between.
	p.inFlight.Add(1)

	// The destroyed check above is advisory: a submitter can pass it
	// and lose the race against Destroy. The global queue is closed
	// after the scheduler's final drain, so the enqueue itself is the
	// authoritative gate.
	if !p.global.enqueue(job) {
		p.finish(1)
		lg.FromContext(p.ctx).Warn("job submitted to destroyed pool, dropped")
		return
	}
	p.metrics.IncSubmitted()
}

// Wait blocks the calling thread until all work known to the pool,
// whether still queued, parked in a private queue, or executing, has
// completed. New submissions made while Wait is blocked extend the
// wait. Multiple concurrent callers are all released together.
func (p *ThreadPool) Wait() {
	p.waitMu.Lock()
	defer p.waitMu.Unlock()

	p.waiters++
	for p.inFlight.Load() > 0 {
		p.waitCond.Wait()
	}
	p.waiters--
}

// Draining reports whether any Wait caller is currently blocked
// pending completion of known work.
func (p *ThreadPool) Draining() bool {
	p.waitMu.Lock()
	defer p.waitMu.Unlock()
	return p.waiters > 0
}

// jobDone is called by a worker after each executed job, outside the
// queue critical sections.
func (p *ThreadPool) jobDone() {
	p.metrics.IncExecuted()
	p.finish(1)
}

// jobsAbandoned accounts for jobs discarded at teardown so Wait
// cannot hang on work that will never run.
func (p *ThreadPool) jobsAbandoned(n int) {
	if n <= 0 {
		return
	}
	p.metrics.AddAbandoned(int64(n))
	p.finish(int64(n))
}

func (p *ThreadPool) finish(n int64) {
	if p.inFlight.Add(-n) == 0 {
		p.waitMu.Lock()
		p.waitCond.Broadcast()
		p.waitMu.Unlock()
	}
}

// withMinJobs returns the live worker with the fewest pending private
// jobs, or nil if no worker is alive. Ties go to the first candidate
// encountered; all tied candidates are equally loaded, so the
// non-determinism is safe.
func (p *ThreadPool) withMinJobs() *WorkerThread {
	p.threadsMu.Lock()
	candidates := make([]*WorkerThread, 0, len(p.threads))
	for _, w := range p.threads {
		candidates = append(candidates, w)
	}
	p.threadsMu.Unlock()

	var best *WorkerThread
	bestLen := 0
	for _, w := range candidates {
		if !w.alive() {
			continue
		}
		if n := w.QueuedJobs(); best == nil || n < bestLen {
			best, bestLen = w, n
		}
	}
	return best
}

// AliveThreads returns the workers that have started and not yet
// terminated.
func (p *ThreadPool) AliveThreads() []*WorkerThread {
	return p.filterThreads(func(w *WorkerThread) bool { return w.alive() })
}

// WaitingThreads returns the workers currently idle and blocked for
// work.
func (p *ThreadPool) WaitingThreads() []*WorkerThread {
	return p.filterThreads(func(w *WorkerThread) bool { return w.Status() == StatusWaiting })
}

// WorkingThreads returns the workers currently executing a job.
func (p *ThreadPool) WorkingThreads() []*WorkerThread {
	return p.filterThreads(func(w *WorkerThread) bool { return w.Status() == StatusWorking })
}

func (p *ThreadPool) filterThreads(keep func(*WorkerThread) bool) []*WorkerThread {
	p.threadsMu.Lock()
	defer p.threadsMu.Unlock()

	out := make([]*WorkerThread, 0, len(p.threads))
	for _, w := range p.threads {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// Destroy tears the pool down: every worker is asked to exit, then
// the scheduler is stopped (draining the global queue into whatever
// workers are still alive), then the workers are joined. Destroy is
// idempotent; repeated calls are no-ops.
func (p *ThreadPool) Destroy() {
	p.destroyOnce.Do(func() {
		p.destroyed.Store(true)

		workers := p.filterThreads(func(*WorkerThread) bool { return true })
		for _, w := range workers {
			w.Exit()
		}

		p.sched.destroy()

		// The scheduler's drain has finished; closing the global
		// queue shuts the door on submitters that slipped past the
		// destroyed flag, and settles the count of any job that
		// landed between the drain and here.
		if n := p.global.close(); n > 0 {
			p.jobsAbandoned(n)
			lg.FromContext(p.ctx).Warn("jobs abandoned at pool destroy",
				lg.Int("abandoned", n),
			)
		}

		for _, w := range workers {
			<-w.done
		}

		p.keysMu.Lock()
		p.keys = make(map[string]int)
		p.keysMu.Unlock()

		lg.FromContext(p.ctx).Info("thread pool destroyed",
			lg.Int("workers", len(workers)),
		)
	})
}
