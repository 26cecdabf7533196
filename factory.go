package depot

type factory struct{}

var Factory factory

func (f factory) NewWorld(opts ...Option) *World {
	return newWorld(opts...)
}

func (f factory) NewSemaphorePool(workers int) *SemaphorePool {
	return NewSemaphorePool(workers)
}

// FactoryNewComponent registers T and returns its typed handle. It panics when the
// component registry is full.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{family: MustFamilyOf[T]()}
}
