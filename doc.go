// Package threadpool provides a user-space thread pool: a set of
// worker threads executing queued units of work, a scheduler that
// balances work across workers, and a synchronization layer that lets
// callers submit jobs and block until all submitted jobs complete.
//
// Architecture overview
//
// The pool is composed of four loosely coupled layers:
//
//   1. Job
//      One unit of work. Either a zero-argument closure or a
//      function plus an opaque argument; both are collapsed into a
//      single zero-argument callable at construction, so the queues
//      and the scheduler never see raw untyped payloads.
//
//   2. Queues (jobQueue)
//      Unbounded thread-safe FIFO containers. One instance serves as
//      the pool-wide global queue; each worker additionally owns a
//      private queue. Queue counts are point-in-time load signals,
//      not precise guarantees.
//
//   3. Scheduling (scheduler)
//      A dedicated goroutine continuously moves jobs from the global
//      queue to the private queue of the least-loaded live worker.
//      When no worker is alive it retries with backoff instead of
//      dropping the job, and it drains the global queue on shutdown.
//
//   4. Execution (WorkerThread / ThreadPool)
//      Each worker runs a loop: block until its private queue is
//      non-empty or an exit is requested, execute one job, report
//      completion. The ThreadPool facade owns the workers, the global
//      queue, the scheduler, and the completion state behind Wait.
//
// Ordering model
//
// Jobs submitted by one producer leave the global queue in submission
// order, and jobs assigned to one worker execute in assignment order.
// There is no global order across workers: two consecutively
// submitted jobs may run concurrently on different workers.
//
// Keyed threads
//
// Besides pool-balanced execution, callers can create addressable
// workers under a string key and later look them up or destroy them
// individually. The key index never owns a worker; ownership stays
// with the pool's id map.
//
// Error handling
//
// Job execution has no synchronous error channel. A panic inside a
// job is recovered, logged, and reported through the optional
// OnJobPanic hook; the worker keeps serving its queue. Callers that
// need failure reporting encode it inside their own callable.
//
// Pause and resume of a running pool are not provided.
package threadpool
