// Package worker runs queued jobs with bounded parallelism. Jobs report
// their own outcomes; the pool only schedules them.
package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one unit of work. It receives the pool's context and handles its
// own errors.
type Job func(ctx context.Context)

// Pool queues jobs and runs them with at most limit in flight.
type Pool struct {
	limit int
	jobs  []Job
}

// New creates a pool. A non-positive limit defaults to the number of CPUs.
func New(limit int) *Pool {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &Pool{limit: limit}
}

// Push queues a job.
func (p *Pool) Push(job Job) {
	p.jobs = append(p.jobs, job)
}

// Len returns the number of queued jobs.
func (p *Pool) Len() int {
	return len(p.jobs)
}

// Run executes all queued jobs and waits for them to finish.
func (p *Pool) Run(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(p.limit)
	for _, job := range p.jobs {
		job := job
		g.Go(func() error {
			job(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// Fanout runs fn for every index in [0, n) with at most limit in flight and
// returns the results in input order. A non-positive limit defaults to the
// number of CPUs. fn handles its own errors; collect them in the result type.
func Fanout[T any](n, limit int, fn func(i int) T) []T {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]T, n)
	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			results[i] = fn(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
