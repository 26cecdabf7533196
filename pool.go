package depot

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// SemaphorePool is the default WorkerPool: one goroutine per task, at most workers of
// them running at a time. A task waits for its predecessor before it takes a worker slot,
// so a chain of dependent tasks can never starve the pool.
type SemaphorePool struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewSemaphorePool(workers int) *SemaphorePool {
	if workers < 1 {
		workers = 1
	}
	return &SemaphorePool{sem: semaphore.NewWeighted(int64(workers))}
}

func (p *SemaphorePool) Submit(task func(), after *JobHandle) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if after != nil {
			<-after.Done()
		}
		// Acquire only fails when its context ends.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		task()
	}()
	return nil
}

// Close rejects further submissions and waits for accepted tasks to finish.
func (p *SemaphorePool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
