package depot

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// AddComponent attaches value to the entity, moving it to the archetype that includes T.
// It fails with ErrDuplicateComponent if the entity already has a T.
func AddComponent[T any](w *World, id EntityID, value T) error {
	fam, err := FamilyOf[T]()
	if err != nil {
		return err
	}
	return addComponent(w, fam, id, value)
}

// AddComponentFunc attaches a zero T to the entity and hands it to init to construct in
// place.
func AddComponentFunc[T any](w *World, id EntityID, init func(*T)) error {
	fam, err := FamilyOf[T]()
	if err != nil {
		return err
	}
	arch, slot, err := w.migrate(id, fam, true)
	if err != nil {
		return err
	}
	if init != nil {
		init(componentAt[T](arch, fam, slot))
	}
	return nil
}

// RemoveComponent detaches T from the entity, moving it to the archetype without T.
// It fails with ErrMissingComponent if the entity has no T.
func RemoveComponent[T any](w *World, id EntityID) error {
	fam, ok := lookupFamily[T]()
	if !ok {
		if !w.HasEntity(id) {
			return eris.Wrapf(ErrUnknownEntity, "entity %d", id)
		}
		return eris.Wrapf(ErrMissingComponent, "remove %s from entity %d", reflect.TypeFor[T](), id)
	}
	return removeComponent(w, fam, id)
}

// GetComponent returns a pointer to the entity's T. The pointer is valid until the next
// structural change to the world.
func GetComponent[T any](w *World, id EntityID) (*T, error) {
	fam, ok := lookupFamily[T]()
	if !ok {
		if !w.HasEntity(id) {
			return nil, eris.Wrapf(ErrUnknownEntity, "entity %d", id)
		}
		return nil, eris.Wrapf(ErrMissingComponent, "get %s from entity %d", reflect.TypeFor[T](), id)
	}
	return getComponent[T](w, fam, id)
}

// HasComponent reports whether the entity currently carries a T.
func HasComponent[T any](w *World, id EntityID) (bool, error) {
	sig, err := w.SignatureOf(id)
	if err != nil {
		return false, err
	}
	fam, ok := lookupFamily[T]()
	return ok && sig.Has(fam), nil
}

func addComponent[T any](w *World, fam FamilyID, id EntityID, value T) error {
	arch, slot, err := w.migrate(id, fam, true)
	if err != nil {
		return err
	}
	setComponent(arch, fam, slot, value)
	return nil
}

func removeComponent(w *World, fam FamilyID, id EntityID) error {
	_, _, err := w.migrate(id, fam, false)
	return err
}

func getComponent[T any](w *World, fam FamilyID, id EntityID) (*T, error) {
	rec, ok := w.records[id]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownEntity, "entity %d", id)
	}
	if rec.arch == nil || !rec.arch.signature.Has(fam) {
		return nil, eris.Wrapf(ErrMissingComponent, "get %s from entity %d", FamilyName(fam), id)
	}
	return componentAt[T](rec.arch, fam, rec.slot), nil
}

// lookupFamily resolves T without registering it.
func lookupFamily[T any]() (FamilyID, bool) {
	families.mu.RLock()
	defer families.mu.RUnlock()
	idx, ok := families.entries.GetIndex(reflect.TypeFor[T]())
	return FamilyID(idx), ok
}
