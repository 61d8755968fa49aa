package threadpool

import (
	"runtime"
	"time"
)

const (
	// DefaultNamePrefix is the kernel-thread name prefix used when
	// none is configured.
	DefaultNamePrefix = "tpool"

	defaultRetryInitial = time.Millisecond
	defaultRetryMax     = 100 * time.Millisecond
)

// RetryPolicy bounds the backoff the scheduler applies while a
// dequeued job has no live worker to go to. Zero values are replaced
// with defaults.
type RetryPolicy struct {
	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// Options configure a ThreadPool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the number of workers created by NewPool.
	Workers int

	// NamePrefix names the workers' kernel threads ("<prefix>-<id>")
	// when PinWorkers is set.
	NamePrefix string

	// PinWorkers locks each worker onto its own OS thread, names it,
	// and pins it to a CPU. Linux only; elsewhere it degrades to
	// locking the OS thread.
	PinWorkers bool

	// Retry governs the scheduler's no-live-worker backoff.
	Retry RetryPolicy

	// Metrics receives pool activity counters. Defaults to
	// NoopMetrics.
	Metrics MetricsPolicy

	// OnJobPanic, if set, is called with the recovered value after a
	// job panics. The worker survives either way.
	OnJobPanic func(recovered any)
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.NamePrefix == "" {
		o.NamePrefix = DefaultNamePrefix
	}
	if o.Retry.Initial <= 0 {
		o.Retry.Initial = defaultRetryInitial
	}
	if o.Retry.Max <= 0 {
		o.Retry.Max = defaultRetryMax
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}
