package reader

import "sync"

// DefaultWorkers is used when a pool is created with no worker count.
const DefaultWorkers = 4

// WorkerPool distributes jobs across a fixed number of goroutines and
// collects their results.
type WorkerPool[Job any, Result any] struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
}

// NewWorkerPool creates a pool. A non-positive numWorkers falls back to
// DefaultWorkers, and the pool never runs more workers than numJobs.
// Both channels are buffered to numJobs so Submit never blocks when the
// job count is known up front.
func NewWorkerPool[Job any, Result any](numWorkers, numJobs int) *WorkerPool[Job, Result] {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	if numJobs > 0 {
		numWorkers = min(numWorkers, numJobs)
	}

	return &WorkerPool[Job, Result]{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numJobs),
		results:    make(chan Result, numJobs),
	}
}

// Start launches the workers.
func (p *WorkerPool[Job, Result]) Start(workerFn func(Job) Result) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.results <- workerFn(job)
			}
		}()
	}
}

// Submit queues a job.
func (p *WorkerPool[Job, Result]) Submit(job Job) {
	p.jobs <- job
}

// Close stops accepting jobs. Results is closed once every worker is done.
func (p *WorkerPool[Job, Result]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Results returns the results channel.
func (p *WorkerPool[Job, Result]) Results() <-chan Result {
	return p.results
}

// Run submits every job, waits, and returns results indexed like jobs.
func Run[Job any, Result any](numWorkers int, jobs []Job, fn func(Job) Result) []Result {
	type indexed struct {
		i   int
		res Result
	}
	type slot struct {
		i   int
		job Job
	}

	pool := NewWorkerPool[slot, indexed](numWorkers, len(jobs))
	pool.Start(func(s slot) indexed {
		return indexed{i: s.i, res: fn(s.job)}
	})
	for i, job := range jobs {
		pool.Submit(slot{i: i, job: job})
	}
	pool.Close()

	out := make([]Result, len(jobs))
	for r := range pool.Results() {
		out[r.i] = r.res
	}
	return out
}
