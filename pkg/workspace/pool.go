package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/jsxtract/pkg/util"
)

// fileJob is one file handed to the worker pool.
type fileJob struct {
	path  string
	jobID int
}

// fileResult carries the candidates found in one file.
type fileResult struct {
	path       string
	candidates []Candidate
	jobID      int
}

// workerPool fans file jobs out to a fixed set of goroutines. Results and
// errors flow back on separate channels; the jobs channel is closed via
// finishSubmitting so workers drain and exit on their own.
type workerPool struct {
	numWorkers int
	jobs       chan fileJob
	results    chan fileResult
	errors     chan FileError
	wg         sync.WaitGroup
	process    func(path string) ([]Candidate, error)
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool
}

// newWorkerPool creates a pool of numWorkers goroutines running process.
// Zero workers auto-detects; the count matches the parser pool size so
// workers never block each other waiting for a parser.
func newWorkerPool(numWorkers int, process func(path string) ([]Candidate, error), logger *slog.Logger) *workerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &workerPool{
		numWorkers: numWorkers,
		jobs:       make(chan fileJob, numWorkers*2),
		results:    make(chan fileResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		process:    process,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (wp *workerPool) start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *workerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			candidates, err := wp.process(job.path)
			if err != nil {
				wp.errors <- FileError{FilePath: job.path, Error: err}
				continue
			}
			wp.results <- fileResult{path: job.path, candidates: candidates, jobID: job.jobID}
		}
	}
}

// submit enqueues a job; blocks when the jobs channel is full.
func (wp *workerPool) submit(job fileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// finishSubmitting closes the jobs channel so workers exit once drained.
// Idempotent.
func (wp *workerPool) finishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// stop waits for in-flight jobs and closes the result channels. Idempotent.
func (wp *workerPool) stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
	wp.cancel()
}
