package depot

import "github.com/rotisserie/eris"

var (
	ErrDuplicateComponent       = eris.New("component already exists on entity")
	ErrMissingComponent         = eris.New("component does not exist on entity")
	ErrUnknownEntity            = eris.New("entity does not exist")
	ErrRegistryCapacityExceeded = eris.New("component registry at maximum capacity")
	ErrInvalidCount             = eris.New("entity count must not be negative")

	// ErrWorldLocked is returned by direct structural mutations while the world is locked.
	// Use the Enqueue variants instead.
	ErrWorldLocked = eris.New("world is currently locked")

	ErrPoolClosed       = eris.New("worker pool is closed")
	ErrJobPanicked      = eris.New("job panicked")
	ErrDependencyFailed = eris.New("job dependency failed")
)
