package depot

// boundedIndex assigns dense, insertion-ordered indices to keys and refuses new keys
// once maxCapacity is reached. Indices are never reclaimed.
type boundedIndex[K comparable, V any] struct {
	items       []V
	itemIndices map[K]int
	maxCapacity int
}

func newBoundedIndex[K comparable, V any](cap int) *boundedIndex[K, V] {
	return &boundedIndex[K, V]{
		items:       make([]V, 0, cap),
		itemIndices: make(map[K]int, cap),
		maxCapacity: cap,
	}
}

func (c *boundedIndex[K, V]) GetIndex(key K) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *boundedIndex[K, V]) GetItem(index int) *V {
	return &c.items[index]
}

func (c *boundedIndex[K, V]) Len() int {
	return len(c.items)
}

// Register returns the existing index for key, or appends item under the next index.
func (c *boundedIndex[K, V]) Register(key K, item V) (int, error) {
	if idx, ok := c.itemIndices[key]; ok {
		return idx, nil
	}
	if len(c.items) >= c.maxCapacity {
		return -1, ErrRegistryCapacityExceeded
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}
