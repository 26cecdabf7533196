package depot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestScheduleRunsWork(t *testing.T) {
	w := newTestWorld(t)
	var ran atomic.Bool

	h := w.Schedule(func(context.Context) error {
		ran.Store(true)
		return nil
	}, nil)

	assert.NilError(t, h.Wait(waitCtx(t)))
	assert.Assert(t, h.IsComplete())
	assert.Assert(t, ran.Load())
	assert.NilError(t, h.Err())
}

func TestScheduleDependencyOrdering(t *testing.T) {
	w := Factory.NewWorld(WithWorkerPool(NewSemaphorePool(4)))
	t.Cleanup(w.Close)

	release := make(chan struct{})
	var firstDone atomic.Bool
	var observed atomic.Bool

	first := w.Schedule(func(context.Context) error {
		<-release
		firstDone.Store(true)
		return nil
	}, nil)
	second := w.Schedule(func(context.Context) error {
		observed.Store(firstDone.Load())
		return nil
	}, first)

	// The dependent cannot finish while its dependency is blocked
	select {
	case <-second.Done():
		t.Fatal("dependent job completed before its dependency")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Assert(t, !first.IsComplete())
	assert.Assert(t, !second.IsComplete())

	close(release)
	assert.NilError(t, second.Wait(waitCtx(t)))
	assert.Assert(t, first.IsComplete())
	assert.Assert(t, observed.Load())
}

func TestScheduleChainOnSingleWorker(t *testing.T) {
	w := Factory.NewWorld(WithWorkerPool(NewSemaphorePool(1)))
	t.Cleanup(w.Close)

	var mu sync.Mutex
	var order []int
	var prev *JobHandle
	for i := 0; i < 5; i++ {
		i := i
		prev = w.Schedule(func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}, prev)
	}
	assert.NilError(t, prev.Wait(waitCtx(t)))

	mu.Lock()
	defer mu.Unlock()
	assert.DeepEqual(t, order, []int{0, 1, 2, 3, 4})
}

func TestScheduleFanOut(t *testing.T) {
	w := newTestWorld(t)
	root := w.Schedule(func(context.Context) error { return nil }, nil)

	var count atomic.Int32
	handles := make([]*JobHandle, 8)
	for i := range handles {
		handles[i] = w.Schedule(func(context.Context) error {
			count.Add(1)
			return nil
		}, root)
	}
	for _, h := range handles {
		assert.NilError(t, h.Wait(waitCtx(t)))
	}
	assert.Equal(t, count.Load(), int32(8))
}

func TestScheduleFailures(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		work    Work
		wantErr error
	}{
		{
			name:    "error",
			work:    func(context.Context) error { return errBoom },
			wantErr: errBoom,
		},
		{
			name:    "panic",
			work:    func(context.Context) error { panic("kaboom") },
			wantErr: ErrJobPanicked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			var dependentRan atomic.Bool

			failed := w.Schedule(tt.work, nil)
			dependent := w.Schedule(func(context.Context) error {
				dependentRan.Store(true)
				return nil
			}, failed)

			assert.ErrorIs(t, failed.Wait(waitCtx(t)), tt.wantErr)
			assert.ErrorIs(t, failed.Err(), tt.wantErr)

			err := dependent.Wait(waitCtx(t))
			assert.ErrorIs(t, err, ErrDependencyFailed)
			assert.Assert(t, !dependentRan.Load())
		})
	}
}

func TestScheduleContextPassesContext(t *testing.T) {
	w := newTestWorld(t)
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "frame-7")

	var got atomic.Value
	h := w.ScheduleContext(ctx, func(ctx context.Context) error {
		got.Store(ctx.Value(key{}))
		return nil
	}, nil)
	assert.NilError(t, h.Wait(waitCtx(t)))
	assert.Equal(t, got.Load(), "frame-7")
}

func TestJobHandleWaitHonoursContext(t *testing.T) {
	h := newJobHandle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.Wait(ctx), context.Canceled)
	assert.Assert(t, !h.IsComplete())
	assert.NilError(t, h.Err())

	h.complete(nil)
	h.complete(errors.New("ignored"))
	assert.Assert(t, h.IsComplete())
	assert.NilError(t, h.Wait(context.Background()))
}

func TestScheduleOnClosedPool(t *testing.T) {
	pool := NewSemaphorePool(2)
	w := Factory.NewWorld(WithWorkerPool(pool))
	pool.Close()

	var ran atomic.Bool
	h := w.Schedule(func(context.Context) error {
		ran.Store(true)
		return nil
	}, nil)

	assert.Assert(t, h.IsComplete())
	assert.ErrorIs(t, h.Err(), ErrPoolClosed)
	assert.Assert(t, !ran.Load())
}

func TestSemaphorePoolBoundsConcurrency(t *testing.T) {
	pool := NewSemaphorePool(2)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}, nil)
		assert.NilError(t, err)
	}
	wg.Wait()
	pool.Close()

	assert.Assert(t, peak.Load() <= 2, "peak %d", peak.Load())
	assert.ErrorIs(t, pool.Submit(func() {}, nil), ErrPoolClosed)
}

func TestZeroJobHandleIsComplete(t *testing.T) {
	var zero JobHandle
	assert.Assert(t, zero.IsComplete())
	assert.NilError(t, zero.Err())
	assert.NilError(t, zero.Wait(waitCtx(t)))

	pool := NewSemaphorePool(1)
	w := Factory.NewWorld(WithWorkerPool(pool))

	var ran atomic.Bool
	h := w.Schedule(func(context.Context) error {
		ran.Store(true)
		return nil
	}, &zero)
	assert.NilError(t, h.Wait(waitCtx(t)))
	assert.Assert(t, ran.Load())

	closed := make(chan struct{})
	go func() {
		w.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not close")
	}
}
