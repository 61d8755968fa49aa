package threadpool

// Job is one unit of work submitted for asynchronous execution.
//
// A Job is immutable once created and is executed at most once on a
// worker thread. It has no return value; completion is observed only
// through the pool (queue counts, worker status, Wait).
type Job struct {
	fn func()
}

// NewJob wraps a zero-argument closure into a Job.
func NewJob(fn func()) Job {
	return Job{fn: fn}
}

// NewJobArg wraps a function and an opaque argument into a Job.
// The pair is normalized to a zero-argument callable here, at
// construction time.
func NewJobArg(fn func(any), arg any) Job {
	if fn == nil {
		return Job{}
	}
	return Job{fn: func() { fn(arg) }}
}

func (j Job) valid() bool { return j.fn != nil }

// run invokes the wrapped callable synchronously on the calling
// thread. Panic handling is the caller's responsibility.
func (j Job) run() { j.fn() }
