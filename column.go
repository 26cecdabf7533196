package depot

// column is one packed array of component values inside an archetype. It is type-erased
// so an archetype can hold any set of columns; typed access goes through typedColumn.
type column interface {
	len() int
	// grow appends one zero value.
	grow()
	// copyFrom overwrites row dst with row srcRow of src. src must hold the same type.
	copyFrom(dst int, src column, srcRow int)
	// swapRemove moves the last value into row and truncates by one.
	swapRemove(row int)
}

type typedColumn[T any] struct {
	data []T
}

func newTypedColumn[T any](capacity int) column {
	return &typedColumn[T]{data: make([]T, 0, capacity)}
}

func (c *typedColumn[T]) len() int {
	return len(c.data)
}

func (c *typedColumn[T]) grow() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *typedColumn[T]) copyFrom(dst int, src column, srcRow int) {
	c.data[dst] = src.(*typedColumn[T]).data[srcRow]
}

func (c *typedColumn[T]) swapRemove(row int) {
	last := len(c.data) - 1
	if row != last {
		c.data[row] = c.data[last]
	}
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}
