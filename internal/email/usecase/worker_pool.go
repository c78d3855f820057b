package usecase

import (
	"context"
	"sync"
)

// workerPool runs one function per index on a fixed number of goroutines.
// A pool serves a single request and is discarded afterwards.
type workerPool struct {
	workerCount int
}

func newWorkerPool(workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &workerPool{workerCount: workerCount}
}

// run calls process for every index in [0, n) and returns once all calls
// finished. Indexes not yet dispatched when ctx is cancelled are dropped.
func (p *workerPool) run(ctx context.Context, n int, process func(ctx context.Context, index int)) {
	if n == 0 {
		return
	}

	workers := p.workerCount
	if workers > n {
		workers = n
	}

	jobQueue := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobQueue {
				process(ctx, index)
			}
		}()
	}

dispatch:
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobQueue <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobQueue)
	wg.Wait()
}
