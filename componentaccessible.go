package depot

// AccessibleComponent is a typed handle for one component family. It is resolved once,
// typically at package level, and then used to add, remove and read T without repeating
// the registry lookup.
type AccessibleComponent[T any] struct {
	family FamilyID
}

func (c AccessibleComponent[T]) Family() FamilyID {
	return c.family
}

// GetFromEntity returns the entity's T.
func (c AccessibleComponent[T]) GetFromEntity(w *World, id EntityID) (*T, error) {
	return getComponent[T](w, c.family, id)
}

// Check reports whether the entity is live and carries T.
func (c AccessibleComponent[T]) Check(w *World, id EntityID) bool {
	sig, err := w.SignatureOf(id)
	return err == nil && sig.Has(c.family)
}

func (c AccessibleComponent[T]) Add(w *World, id EntityID, value T) error {
	return addComponent(w, c.family, id, value)
}

func (c AccessibleComponent[T]) Remove(w *World, id EntityID) error {
	return removeComponent(w, c.family, id)
}

// EnqueueAdd adds immediately when the world is unlocked and defers otherwise.
func (c AccessibleComponent[T]) EnqueueAdd(w *World, id EntityID, value T) error {
	if !w.locked.Load() {
		return c.Add(w, id, value)
	}
	w.opQueue.enqueueComponentOp(opAddComponent, id, func(w *World) error {
		return addComponent(w, c.family, id, value)
	})
	return nil
}

// EnqueueRemove removes immediately when the world is unlocked and defers otherwise.
func (c AccessibleComponent[T]) EnqueueRemove(w *World, id EntityID) error {
	if !w.locked.Load() {
		return c.Remove(w, id)
	}
	w.opQueue.enqueueComponentOp(opRemoveComponent, id, func(w *World) error {
		return removeComponent(w, c.family, id)
	})
	return nil
}
