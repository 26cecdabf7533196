package depot

import (
	"iter"
	"slices"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World is the entity registry: it owns entity identity and the mapping from every live
// entity to its archetype and slot, and drives entities between archetypes as their
// component sets change.
//
// A World is not safe for concurrent structural mutation. Callers that mutate from
// scheduled jobs coordinate externally, or use Lock and the Enqueue variants.
type World struct {
	logger   zerolog.Logger
	dir      *directory
	records  map[EntityID]record
	nextID   atomic.Uint64
	locked   atomic.Bool
	opQueue  *opQueue
	pool     WorkerPool
	capacity int
}

// record locates a live entity. arch is nil until the entity's first component is added.
type record struct {
	arch *archetype
	slot int
}

func newWorld(opts ...Option) *World {
	w := &World{
		logger:   Config.logger,
		records:  make(map[EntityID]record),
		opQueue:  newOpQueue(),
		capacity: Config.initialCapacity,
	}
	w.nextID.Store(1)
	for _, opt := range opts {
		opt(w)
	}
	if w.pool == nil {
		w.pool = NewSemaphorePool(Config.workers)
	}
	w.dir = newDirectory(w.capacity, w.archetypeCreated)
	return w
}

func (w *World) archetypeCreated(a *archetype) {
	names := make([]string, len(a.families))
	for i, fam := range a.families {
		names[i] = FamilyName(fam)
	}
	w.logger.Debug().
		Uint32("archetype", a.ID()).
		Strs("components", names).
		Msg("archetype created")
}

// CreateEntity allocates a new entity with no components.
func (w *World) CreateEntity() EntityID {
	id := EntityID(w.nextID.Add(1) - 1)
	w.records[id] = record{slot: -1}
	return id
}

// NewEntities creates n entities that start with a zero value of every given component.
// They are placed directly into the matching archetype.
func (w *World) NewEntities(n int, components ...Component) ([]EntityID, error) {
	if w.locked.Load() {
		return nil, ErrWorldLocked
	}
	if n < 0 {
		return nil, eris.Wrapf(ErrInvalidCount, "create %d entities", n)
	}
	ids := make([]FamilyID, len(components))
	for i, c := range components {
		ids[i] = c.Family()
	}
	var arch *archetype
	if len(ids) > 0 {
		arch = w.dir.getOrCreate(ids)
	}

	entities := make([]EntityID, n)
	for i := range entities {
		id := w.CreateEntity()
		if arch != nil {
			w.records[id] = record{arch: arch, slot: arch.newRow(id)}
		}
		entities[i] = id
	}
	return entities, nil
}

// DestroyEntity frees the entity's row and retires its id.
func (w *World) DestroyEntity(id EntityID) error {
	if w.locked.Load() {
		return ErrWorldLocked
	}
	rec, ok := w.records[id]
	if !ok {
		return eris.Wrapf(ErrUnknownEntity, "destroy entity %d", id)
	}
	if rec.arch != nil {
		w.removeRow(rec.arch, rec.slot)
	}
	delete(w.records, id)
	w.logger.Debug().Uint64("entity", uint64(id)).Msg("entity destroyed")
	return nil
}

func (w *World) HasEntity(id EntityID) bool {
	_, ok := w.records[id]
	return ok
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return len(w.records)
}

// SignatureOf returns the entity's current component set.
func (w *World) SignatureOf(id EntityID) (Signature, error) {
	rec, ok := w.records[id]
	if !ok {
		return Signature{}, eris.Wrapf(ErrUnknownEntity, "signature of entity %d", id)
	}
	if rec.arch == nil {
		return Signature{}, nil
	}
	return rec.arch.signature, nil
}

// ArchetypeOf returns the entity's archetype and slot. ok is false while the entity has
// never held a component.
func (w *World) ArchetypeOf(id EntityID) (arch Archetype, slot int, ok bool, err error) {
	rec, found := w.records[id]
	if !found {
		return nil, 0, false, eris.Wrapf(ErrUnknownEntity, "archetype of entity %d", id)
	}
	if rec.arch == nil {
		return nil, 0, false, nil
	}
	return rec.arch, rec.slot, true, nil
}

// Archetype returns the table for sig if one has been created.
func (w *World) Archetype(sig Signature) (Archetype, bool) {
	arch := w.dir.lookup(sig)
	if arch == nil {
		return nil, false
	}
	return arch, true
}

// Archetypes yields every archetype created so far, in creation order.
func (w *World) Archetypes() iter.Seq[Archetype] {
	return w.dir.all()
}

func (w *World) ArchetypeCount() int {
	return w.dir.count()
}

// Close waits for scheduled jobs when the world's pool supports it.
func (w *World) Close() {
	if c, ok := w.pool.(interface{ Close() }); ok {
		c.Close()
	}
}

// migrate moves entity id to the archetype whose signature differs from its current one
// by fam: added when add is set, removed otherwise. All preconditions are checked before
// anything moves. It returns the destination archetype and slot.
func (w *World) migrate(id EntityID, fam FamilyID, add bool) (*archetype, int, error) {
	if w.locked.Load() {
		return nil, 0, ErrWorldLocked
	}
	rec, ok := w.records[id]
	if !ok {
		return nil, 0, eris.Wrapf(ErrUnknownEntity, "entity %d", id)
	}

	src := rec.arch
	var prev Signature
	if src != nil {
		prev = src.signature
	}

	var next Signature
	if add {
		if prev.Has(fam) {
			return nil, 0, eris.Wrapf(ErrDuplicateComponent, "add %s to entity %d", FamilyName(fam), id)
		}
		next = prev.With(fam)
	} else {
		if !prev.Has(fam) {
			return nil, 0, eris.Wrapf(ErrMissingComponent, "remove %s from entity %d", FamilyName(fam), id)
		}
		next = prev.Without(fam)
	}

	dst := w.neighbour(src, fam, add)
	slot := transplant(dst, src, rec.slot, next, id)
	if src != nil {
		w.removeRow(src, rec.slot)
	}
	w.records[id] = record{arch: dst, slot: slot}
	return dst, slot, nil
}

// neighbour returns the archetype reached from src by adding or removing fam, caching
// the edge on src. A nil src stands for an entity that has never been placed.
func (w *World) neighbour(src *archetype, fam FamilyID, add bool) *archetype {
	if src == nil {
		return w.dir.getOrCreate([]FamilyID{fam})
	}
	edges := &src.removeEdges
	if add {
		edges = &src.addEdges
	}
	if dst := edges[fam]; dst != nil {
		return dst
	}

	var ids []FamilyID
	if add {
		ids = append(slices.Clone(src.families), fam)
	} else {
		ids = slices.DeleteFunc(slices.Clone(src.families), func(f FamilyID) bool { return f == fam })
	}
	dst := w.dir.getOrCreate(ids)
	edges[fam] = dst
	return dst
}

// removeRow swap-removes slot from arch and repoints whichever entity was moved into it.
func (w *World) removeRow(arch *archetype, slot int) {
	moved, relocated := arch.swapRemove(slot)
	if !relocated {
		return
	}
	rec := w.records[moved]
	rec.slot = slot
	w.records[moved] = rec
}
