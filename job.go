package depot

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
)

// JobHandle tracks one scheduled unit of work. A handle completes exactly once, with the
// work's error (nil on success). Any number of later jobs may depend on the same handle.
// The zero JobHandle is already complete.
type JobHandle struct {
	once     sync.Once
	done     chan struct{}
	finished atomic.Bool
	err      error
}

var completedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func newJobHandle() *JobHandle {
	return &JobHandle{done: make(chan struct{})}
}

// IsComplete reports, without blocking, whether the job has finished.
func (h *JobHandle) IsComplete() bool {
	return h.done == nil || h.finished.Load()
}

// Done is closed when the job finishes.
func (h *JobHandle) Done() <-chan struct{} {
	if h.done == nil {
		return completedDone
	}
	return h.done
}

// Err returns the job's error once it is complete, and nil before that.
func (h *JobHandle) Err() error {
	if !h.IsComplete() {
		return nil
	}
	return h.err
}

// Wait blocks until the job completes or ctx ends.
func (h *JobHandle) Wait(ctx context.Context) error {
	select {
	case <-h.Done():
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *JobHandle) complete(err error) {
	h.once.Do(func() {
		h.err = err
		h.finished.Store(true)
		close(h.done)
	})
}

// Schedule submits work to the world's pool and returns immediately. When dependency is
// non-nil, work starts only after dependency completes and observes everything it wrote.
// If dependency failed, work is skipped and the handle fails with ErrDependencyFailed.
func (w *World) Schedule(work Work, dependency *JobHandle) *JobHandle {
	return w.ScheduleContext(context.Background(), work, dependency)
}

// ScheduleContext is Schedule with a context handed to work. Cancelling ctx does not
// cancel the job; work decides what to do with it.
func (w *World) ScheduleContext(ctx context.Context, work Work, dependency *JobHandle) *JobHandle {
	h := newJobHandle()
	task := func() {
		h.complete(w.runJob(ctx, work, dependency))
	}
	if err := w.pool.Submit(task, dependency); err != nil {
		w.logger.Error().Err(err).Msg("job rejected by worker pool")
		h.complete(err)
	}
	return h
}

func (w *World) runJob(ctx context.Context, work Work, dependency *JobHandle) (err error) {
	if dependency != nil {
		<-dependency.Done()
		if depErr := dependency.Err(); depErr != nil {
			return eris.Wrapf(ErrDependencyFailed, "%v", depErr)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			err = eris.Wrapf(ErrJobPanicked, "%v", r)
		}
		if err != nil {
			w.logger.Error().Err(err).Msg("job failed")
		}
	}()
	return work(ctx)
}
