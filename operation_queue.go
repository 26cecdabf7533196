package depot

import (
	"errors"
	"sync"

	"github.com/rotisserie/eris"
)

type operation struct {
	typ        operationType
	entity     EntityID
	amount     int
	components []Component
	apply      func(*World) error
}

type operationType int

const (
	opNoop operationType = iota - 1
	opCreate
	opDestroy
	opAddComponent
	opRemoveComponent
)

// opQueue holds structural changes requested while the world is locked. They are applied
// on Unlock: creates, then component changes in request order, then destroys. Jobs may
// enqueue concurrently.
type opQueue struct {
	mu             sync.Mutex
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
	pendingMods    map[EntityID][]int
}

// pendingOps is a batch taken out of an opQueue for applying.
type pendingOps struct {
	createOps    []operation
	componentOps []operation
	destroyOps   []operation
}

func (p pendingOps) len() int {
	return len(p.createOps) + len(p.componentOps) + len(p.destroyOps)
}

func newOpQueue() *opQueue {
	return &opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
		pendingMods:    make(map[EntityID][]int),
	}
}

func (q *opQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.createOps) + len(q.componentOps) + len(q.destroyOps)
}

func (q *opQueue) enqueueCreate(amount int, components []Component) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.createOps = append(q.createOps, operation{
		typ:        opCreate,
		amount:     amount,
		components: components,
	})
}

func (q *opQueue) enqueueComponentOp(typ operationType, id EntityID, apply func(*World) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	// Changes to an entity that is about to be destroyed are dropped.
	if _, isDestroyed := q.pendingDestroy[id]; isDestroyed {
		return
	}
	q.pendingMods[id] = append(q.pendingMods[id], len(q.componentOps))
	q.componentOps = append(q.componentOps, operation{
		typ:    typ,
		entity: id,
		apply:  apply,
	})
}

func (q *opQueue) enqueueDestroy(id EntityID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.pendingDestroy[id]; exists {
		return
	}
	q.pendingDestroy[id] = struct{}{}

	for _, idx := range q.pendingMods[id] {
		q.componentOps[idx].typ = opNoop
	}
	delete(q.pendingMods, id)

	q.destroyOps = append(q.destroyOps, operation{typ: opDestroy, entity: id})
}

// take empties the queue and returns what it held.
func (q *opQueue) take() pendingOps {
	q.mu.Lock()
	defer q.mu.Unlock()
	taken := pendingOps{
		createOps:    q.createOps,
		componentOps: q.componentOps,
		destroyOps:   q.destroyOps,
	}
	q.createOps = nil
	q.componentOps = nil
	q.destroyOps = nil
	clear(q.pendingDestroy)
	clear(q.pendingMods)
	return taken
}

// Lock makes direct structural changes fail with ErrWorldLocked until Unlock. Component
// values may still be read and written in place.
func (w *World) Lock() {
	w.locked.Store(true)
}

// Unlock applies every deferred change. All queued operations are attempted; their
// failures are joined into the returned error. Jobs that enqueue must have finished
// before Unlock is called.
func (w *World) Unlock() error {
	w.locked.Store(false)
	return w.processOperationQueue()
}

func (w *World) Locked() bool {
	return w.locked.Load()
}

func (w *World) processOperationQueue() error {
	batch := w.opQueue.take()
	if batch.len() == 0 {
		return nil
	}
	var errs []error

	for _, op := range batch.createOps {
		if _, err := w.NewEntities(op.amount, op.components...); err != nil {
			errs = append(errs, eris.Wrap(err, "failed to process queued entity creation"))
		}
	}

	for _, op := range batch.componentOps {
		if op.typ == opNoop {
			continue
		}
		if err := op.apply(w); err != nil {
			errs = append(errs, eris.Wrapf(err, "failed to apply queued component change to entity %d", op.entity))
		}
	}

	for _, op := range batch.destroyOps {
		if err := w.DestroyEntity(op.entity); err != nil {
			errs = append(errs, eris.Wrapf(err, "failed to destroy queued entity %d", op.entity))
		}
	}

	w.logger.Debug().Int("operations", batch.len()).Int("failed", len(errs)).Msg("operation queue flushed")
	return errors.Join(errs...)
}

// EnqueueNewEntities creates entities now, or on Unlock when the world is locked.
func (w *World) EnqueueNewEntities(amount int, components ...Component) error {
	if !w.locked.Load() {
		_, err := w.NewEntities(amount, components...)
		return err
	}
	if amount < 0 {
		return eris.Wrapf(ErrInvalidCount, "create %d entities", amount)
	}
	w.opQueue.enqueueCreate(amount, components)
	return nil
}

// EnqueueDestroyEntity destroys the entity now, or on Unlock when the world is locked.
func (w *World) EnqueueDestroyEntity(id EntityID) error {
	if !w.locked.Load() {
		return w.DestroyEntity(id)
	}
	if !w.HasEntity(id) {
		return eris.Wrapf(ErrUnknownEntity, "entity %d", id)
	}
	w.opQueue.enqueueDestroy(id)
	return nil
}

// EnqueueAddComponent is AddComponent, deferred to Unlock while the world is locked.
func EnqueueAddComponent[T any](w *World, id EntityID, value T) error {
	if !w.locked.Load() {
		return AddComponent(w, id, value)
	}
	fam, err := FamilyOf[T]()
	if err != nil {
		return err
	}
	w.opQueue.enqueueComponentOp(opAddComponent, id, func(w *World) error {
		return addComponent(w, fam, id, value)
	})
	return nil
}

// EnqueueRemoveComponent is RemoveComponent, deferred to Unlock while the world is locked.
func EnqueueRemoveComponent[T any](w *World, id EntityID) error {
	if !w.locked.Load() {
		return RemoveComponent[T](w, id)
	}
	w.opQueue.enqueueComponentOp(opRemoveComponent, id, func(w *World) error {
		return RemoveComponent[T](w, id)
	})
	return nil
}
