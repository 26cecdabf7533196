package depot

import (
	"iter"
	"sync"
)

// directory owns every archetype and maps each signature to exactly one of them.
// Archetypes are never removed; an empty archetype is a valid steady state.
type directory struct {
	mu               sync.RWMutex
	nextID           archetypeID
	asSlice          []*archetype
	idsGroupedByMask map[Signature]archetypeID
	capacity         int
	onCreate         func(*archetype)
}

func newDirectory(capacity int, onCreate func(*archetype)) *directory {
	return &directory{
		nextID:           1,
		idsGroupedByMask: make(map[Signature]archetypeID),
		capacity:         capacity,
		onCreate:         onCreate,
	}
}

// getOrCreate returns the archetype for the signature made of ids, creating it on first
// request. Concurrent callers asking for the same new signature get the same table.
func (d *directory) getOrCreate(ids []FamilyID) *archetype {
	sig := NewSignature(ids...)
	if arch := d.lookup(sig); arch != nil {
		return arch
	}

	d.mu.Lock()
	if id, found := d.idsGroupedByMask[sig]; found {
		arch := d.asSlice[id-1]
		d.mu.Unlock()
		return arch
	}
	created := newArchetype(d.nextID, ids, d.capacity)
	d.asSlice = append(d.asSlice, created)
	d.idsGroupedByMask[sig] = d.nextID
	d.nextID++
	d.mu.Unlock()

	if d.onCreate != nil {
		d.onCreate(created)
	}
	return created
}

func (d *directory) lookup(sig Signature) *archetype {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id, found := d.idsGroupedByMask[sig]; found {
		return d.asSlice[id-1]
	}
	return nil
}

func (d *directory) count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.asSlice)
}

// all yields archetypes in creation order. Archetypes created during iteration are not
// visited.
func (d *directory) all() iter.Seq[Archetype] {
	return func(yield func(Archetype) bool) {
		d.mu.RLock()
		snapshot := d.asSlice[:len(d.asSlice):len(d.asSlice)]
		d.mu.RUnlock()
		for _, arch := range snapshot {
			if !yield(arch) {
				return
			}
		}
	}
}
