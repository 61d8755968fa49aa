package threadpool_test

import (
	"runtime"
	"testing"
	"time"

	tp "github.com/azargarov/threadpool"
)

var fastRetry = tp.RetryPolicy{Initial: time.Millisecond, Max: 5 * time.Millisecond}

func newTestPool(t *testing.T, workers int) *tp.ThreadPool {
	t.Helper()

	p := tp.NewPool(tp.Options{
		Workers: workers,
		Retry:   fastRetry,
	})
	t.Cleanup(p.Destroy)
	return p
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
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
