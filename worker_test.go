package threadpool

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"
)

// newBarePool builds a pool skeleton without live workers or a
// running scheduler, for driving internals directly.
func newBarePool() *ThreadPool {
	opts := Options{
		Workers: 1,
		Retry:   RetryPolicy{Initial: time.Millisecond, Max: 2 * time.Millisecond},
	}
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
	return p
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func TestWorkerLifecycle(t *testing.T) {
	p := newBarePool()
	w := newWorkerThread(0, p)

	if got := w.Status(); got != StatusInactive {
		t.Fatalf("status before start = %v; want inactive", got)
	}

	w.start()
	<-w.ready

	if got := w.Status(); got != StatusWaiting {
		t.Fatalf("status after start = %v; want waiting", got)
	}

	gate := make(chan struct{})
	w.queue.enqueue(NewJob(func() { <-gate }))

	waitFor(t, time.Second, func() bool { return w.Status() == StatusWorking })
	close(gate)
	waitFor(t, time.Second, func() bool { return w.Status() == StatusWaiting })

	w.Exit()
	<-w.done

	if got := w.Status(); got != StatusInactive {
		t.Fatalf("status after exit = %v; want inactive", got)
	}
}

func TestWorkerExitIdempotent(t *testing.T) {
	p := newBarePool()
	w := newWorkerThread(0, p)
	w.start()
	<-w.ready

	w.Exit()
	w.Exit()
	<-w.done

	// Exiting an already inactive worker stays a no-op.
	w.Exit()
}

func TestWorkerExitAbandonsQueued(t *testing.T) {
	p := newBarePool()
	w := newWorkerThread(0, p)
	w.start()
	<-w.ready

	gate := make(chan struct{})
	p.inFlight.Add(4)
	w.queue.enqueue(NewJob(func() { <-gate }))
	waitFor(t, time.Second, func() bool { return w.Status() == StatusWorking })

	// Queued behind the blocked job; abandoned once exit is observed.
	for range 3 {
		w.queue.enqueue(NewJob(func() { t.Error("abandoned job executed") }))
	}

	w.Exit()
	close(gate)
	<-w.done

	if got := p.inFlight.Load(); got != 0 {
		t.Fatalf("inFlight after exit = %d; want 0", got)
	}
	if got := w.QueuedJobs(); got != 0 {
		t.Fatalf("queued jobs after exit = %d; want 0", got)
	}
}

func TestWorkerPanicRecovery(t *testing.T) {
	p := newBarePool()

	var mu sync.Mutex
	var recovered any
	p.opts.OnJobPanic = func(r any) {
		mu.Lock()
		recovered = r
		mu.Unlock()
	}

	w := newWorkerThread(0, p)
	w.start()
	<-w.ready
	defer func() {
		w.Exit()
		<-w.done
	}()

	p.inFlight.Add(2)
	w.queue.enqueue(NewJob(func() { panic("boom") }))

	secondDone := make(chan struct{})
	w.queue.enqueue(NewJob(func() { close(secondDone) }))

	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}

	mu.Lock()
	defer mu.Unlock()
	if recovered != "boom" {
		t.Fatalf("OnJobPanic got %v; want boom", recovered)
	}
}
