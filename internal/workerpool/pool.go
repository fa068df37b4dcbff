package workerpool

import (
	"context"
	"runtime"
	"sync"
)

type Result[V any] struct {
	Value V
	Error error
}

// WorkerPool runs handler over batches of tasks on a fixed set of
// goroutines. Results arrive in completion order, not submission order.
type WorkerPool[T any, V any] struct {
	ctx         context.Context
	handler     func(context.Context, T) (V, error)
	tasksChan   chan []T
	resultsChan chan Result[V]
	wg          sync.WaitGroup
	numWorkers  int
}

// New starts the workers. numWorkers <= 0 means GOMAXPROCS. Cancelling ctx
// stops processing; queued tasks are dropped without results.
func New[T any, V any](ctx context.Context, handler func(context.Context, T) (V, error), numWorkers int) *WorkerPool[T, V] {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &WorkerPool[T, V]{
		ctx:         ctx,
		handler:     handler,
		tasksChan:   make(chan []T, numWorkers),
		resultsChan: make(chan Result[V], numWorkers*2),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		pool.wg.Go(pool.worker)
	}

	return pool
}

func (p *WorkerPool[T, V]) worker() {
	for tasks := range p.tasksChan {
		for _, task := range tasks {
			if p.ctx.Err() != nil {
				break
			}

			result, err := p.handler(p.ctx, task)

			select {
			case p.resultsChan <- Result[V]{Value: result, Error: err}:
			case <-p.ctx.Done():
			}
		}
	}
}

// Add queues a batch. It blocks while all workers are busy and fails once
// ctx is done.
func (p *WorkerPool[T, V]) Add(tasks []T) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}

	select {
	case p.tasksChan <- tasks:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *WorkerPool[T, V]) Results() <-chan Result[V] {
	return p.resultsChan
}

func (p *WorkerPool[T, V]) Workers() int {
	return p.numWorkers
}

// Close stops accepting tasks. Results is closed after the last worker exits.
func (p *WorkerPool[T, V]) Close() {
	close(p.tasksChan)

	go func() {
		p.wg.Wait()
		close(p.resultsChan)
	}()
}
