package depot

import "context"

// EntityID identifies an entity. Ids start at 1 and are never reused within a process.
type EntityID uint64

// Component is anything that names a component family, such as an AccessibleComponent.
type Component interface {
	Family() FamilyID
}

// Archetype is a read-only view of one archetype table.
type Archetype interface {
	ID() uint32
	Signature() Signature
	Len() int
	Families() []FamilyID
	Entities() []EntityID
}

// Work is a unit of work scheduled on a WorkerPool.
type Work func(ctx context.Context) error

// WorkerPool executes scheduled tasks. Implementations must not start task before after
// (when non-nil) reports IsComplete, and must run every accepted task exactly once.
type WorkerPool interface {
	Submit(task func(), after *JobHandle) error
}

var (
	_ Archetype  = &archetype{}
	_ Component  = AccessibleComponent[struct{}]{}
	_ WorkerPool = &SemaphorePool{}
)
