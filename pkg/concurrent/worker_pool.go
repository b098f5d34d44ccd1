package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// JobFuncWithContext. job of a pool started with StartWithContext.
type JobFuncWithContext[T any, G any] func(ctx context.Context, job T) G

// WorkerPool. fixed number of goroutines consuming jobs of type T and producing results of type G.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// StartWithContext. like Start, but after ctx is done the remaining jobs are drained without being run.
func (wp *WorkerPool[T, G]) StartWithContext(ctx context.Context, jobFunc JobFuncWithContext[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobQueue {
				if ctx.Err() != nil {
					continue
				}
				wp.results <- jobFunc(ctx, job)
			}
		}()
	}
}

// Wait blocks until every worker returned and closes the result channel. call Close first.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

// Close. no more jobs are added.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}
