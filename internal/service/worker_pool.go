package service

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs submitted jobs on a fixed number of workers. It is the
// single mechanism bounding how many vision calls run at once.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once
	closed   atomic.Bool

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	activeWorkers atomic.Int64
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	TotalJobs     int64
	CompletedJobs int64
	ActiveWorkers int64
}

// NewWorkerPool creates a pool with the given number of workers, defaulting
// to the CPU count when workers <= 0.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Calling Start more than once is a no-op.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		wp.activeWorkers.Add(1)
		job()
		wp.activeWorkers.Add(-1)
		wp.completedJobs.Add(1)
		wp.wg.Done()
	}
}

// Submit queues a job, blocking when the queue is full. It reports false if
// the pool has been closed.
func (wp *WorkerPool) Submit(job func()) bool {
	if wp.closed.Load() {
		return false
	}
	wp.wg.Add(1)
	wp.totalJobs.Add(1)
	wp.jobQueue <- job
	return true
}

// Wait blocks until every submitted job has completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close shuts down the pool. Jobs already queued still run.
func (wp *WorkerPool) Close() {
	if wp.closed.CompareAndSwap(false, true) {
		close(wp.jobQueue)
	}
}

// GetStats returns a snapshot of the pool counters.
func (wp *WorkerPool) GetStats() PoolStats {
	return PoolStats{
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
	}
}
