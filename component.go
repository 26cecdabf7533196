package depot

import (
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
)

// FamilyID is the stable small integer assigned to a component type on first use.
// It doubles as the component's bit in a Signature.
type FamilyID uint32

// MaxFamilies is the number of distinct component types a process may register.
const MaxFamilies = 64

// family is what the registry keeps per component type: its identity and a factory for
// the column that stores it.
type family struct {
	typ       reflect.Type
	newColumn func(capacity int) column
}

type familyRegistry struct {
	mu      sync.RWMutex
	entries *boundedIndex[reflect.Type, family]
}

// families is the process-wide registry. Ids are never released.
var families = newFamilyRegistry(MaxFamilies)

func newFamilyRegistry(capacity int) *familyRegistry {
	return &familyRegistry{entries: newBoundedIndex[reflect.Type, family](capacity)}
}

// FamilyOf returns the family id of T, registering T on first use.
func FamilyOf[T any]() (FamilyID, error) {
	return registerFamily[T](families)
}

// MustFamilyOf is FamilyOf for package-level component handles; it panics when the
// registry is full.
func MustFamilyOf[T any]() FamilyID {
	id, err := FamilyOf[T]()
	if err != nil {
		panic(err)
	}
	return id
}

// FamilyName returns the type name registered under id, or "" if id is unassigned.
func FamilyName(id FamilyID) string {
	return families.name(id)
}

func registerFamily[T any](r *familyRegistry) (FamilyID, error) {
	typ := reflect.TypeFor[T]()

	r.mu.RLock()
	idx, ok := r.entries.GetIndex(typ)
	r.mu.RUnlock()
	if ok {
		return FamilyID(idx), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	idx, err := r.entries.Register(typ, family{typ: typ, newColumn: newTypedColumn[T]})
	if err != nil {
		return 0, eris.Wrapf(err, "cannot register component %s (limit %d)", typ, r.entries.maxCapacity)
	}
	return FamilyID(idx), nil
}

func (r *familyRegistry) lookup(id FamilyID) (family, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= r.entries.Len() {
		return family{}, false
	}
	return *r.entries.GetItem(int(id)), true
}

func (r *familyRegistry) name(id FamilyID) string {
	f, ok := r.lookup(id)
	if !ok {
		return ""
	}
	return f.typ.String()
}
