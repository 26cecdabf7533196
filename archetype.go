package depot

import "slices"

type archetypeID uint32

// archetype stores every entity of one exact signature. Each family in the signature owns
// one column; all columns, and the entities column, share one length and are aligned by
// slot.
type archetype struct {
	id        archetypeID
	signature Signature
	families  []FamilyID
	columns   []column
	slots     [MaxFamilies]int8 // column index per family id; -1 if absent
	entities  []EntityID

	// Archetypes one component away, filled lazily by World.neighbour.
	addEdges    [MaxFamilies]*archetype
	removeEdges [MaxFamilies]*archetype
}

func newArchetype(id archetypeID, ids []FamilyID, capacity int) *archetype {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	a := &archetype{
		id:        id,
		signature: NewSignature(sorted...),
		families:  sorted,
		columns:   make([]column, len(sorted)),
		entities:  make([]EntityID, 0, capacity),
	}
	for i := range a.slots {
		a.slots[i] = -1
	}
	for i, fam := range sorted {
		f, ok := families.lookup(fam)
		if !ok {
			panic("depot: archetype built from unregistered family")
		}
		a.columns[i] = f.newColumn(capacity)
		a.slots[fam] = int8(i)
	}
	return a
}

func (a *archetype) ID() uint32 {
	return uint32(a.id)
}

func (a *archetype) Signature() Signature {
	return a.signature
}

func (a *archetype) Len() int {
	return len(a.entities)
}

func (a *archetype) Families() []FamilyID {
	return slices.Clone(a.families)
}

func (a *archetype) Entities() []EntityID {
	return slices.Clone(a.entities)
}

func (a *archetype) column(fam FamilyID) column {
	idx := a.slots[fam]
	if idx < 0 {
		return nil
	}
	return a.columns[idx]
}

// newRow reserves a row for e with a zero value in every column and returns its slot.
func (a *archetype) newRow(e EntityID) int {
	for _, col := range a.columns {
		col.grow()
	}
	a.entities = append(a.entities, e)
	return len(a.entities) - 1
}

// transplant reserves a row for e in dst and copies into it every component of row
// srcSlot in src whose family is in keep and present in both tables.
func transplant(dst, src *archetype, srcSlot int, keep Signature, e EntityID) int {
	dstSlot := dst.newRow(e)
	if src == nil {
		return dstSlot
	}
	for i, fam := range src.families {
		if !keep.Has(fam) {
			continue
		}
		to := dst.column(fam)
		if to == nil {
			continue
		}
		to.copyFrom(dstSlot, src.columns[i], srcSlot)
	}
	return dstSlot
}

// swapRemove drops the row at slot from every column. The last row is moved into slot;
// when that row belonged to another entity, it is returned with relocated set so the
// caller can update that entity's slot.
func (a *archetype) swapRemove(slot int) (moved EntityID, relocated bool) {
	last := len(a.entities) - 1
	for _, col := range a.columns {
		col.swapRemove(slot)
	}
	if slot != last {
		moved = a.entities[last]
		a.entities[slot] = moved
		relocated = true
	}
	a.entities = a.entities[:last]
	return moved, relocated
}

func setComponent[T any](a *archetype, fam FamilyID, slot int, value T) {
	a.column(fam).(*typedColumn[T]).data[slot] = value
}

func componentAt[T any](a *archetype, fam FamilyID, slot int) *T {
	col := a.column(fam)
	if col == nil {
		return nil
	}
	return &col.(*typedColumn[T]).data[slot]
}
