package mdp

import "log"

// A Table1D is dense storage addressed by an integer key whose valid range
// is a closed interval. The range may start below zero, which is what the
// signed move axis needs.
type Table1D[T any] struct {
	lo, hi   int
	elements []T
}

// NewTable1D creates a table covering the inclusive range [lo, hi].
func NewTable1D[T any](lo, hi int) *Table1D[T] {
	if hi < lo {
		log.Panicf("invalid table range [%d, %d]", lo, hi)
	}

	return &Table1D[T]{
		lo:       lo,
		hi:       hi,
		elements: make([]T, hi-lo+1),
	}
}

// Get returns the element at index i.
func (t *Table1D[T]) Get(i int) T {
	return t.elements[t.offset(i)]
}

// Set overwrites the element at index i.
func (t *Table1D[T]) Set(i int, v T) {
	t.elements[t.offset(i)] = v
}

// Len returns the number of elements in the table.
func (t *Table1D[T]) Len() int {
	return len(t.elements)
}

// Bounds returns the inclusive index range.
func (t *Table1D[T]) Bounds() (lo, hi int) {
	return t.lo, t.hi
}

// ForEach visits every element in ascending index order.
func (t *Table1D[T]) ForEach(visit func(i int, v T)) {
	for o, v := range t.elements {
		visit(t.lo+o, v)
	}
}

func (t *Table1D[T]) offset(i int) int {
	if i < t.lo || i > t.hi {
		log.Panicf("index %d out of table range [%d, %d]", i, t.lo, t.hi)
	}

	return i - t.lo
}

// A Table2D is dense storage addressed by an integer pair. Each axis covers
// its own closed interval.
type Table2D[T any] struct {
	lo0, hi0 int
	lo1, hi1 int
	stride   int
	elements []T
}

// NewTable2D creates a table covering [lo0, hi0] x [lo1, hi1].
func NewTable2D[T any](lo0, hi0, lo1, hi1 int) *Table2D[T] {
	if hi0 < lo0 || hi1 < lo1 {
		log.Panicf("invalid table range [%d, %d]x[%d, %d]", lo0, hi0, lo1, hi1)
	}

	stride := hi1 - lo1 + 1

	return &Table2D[T]{
		lo0:      lo0,
		hi0:      hi0,
		lo1:      lo1,
		hi1:      hi1,
		stride:   stride,
		elements: make([]T, (hi0-lo0+1)*stride),
	}
}

// Get returns the element at (i, j).
func (t *Table2D[T]) Get(i, j int) T {
	return t.elements[t.offset(i, j)]
}

// Set overwrites the element at (i, j).
func (t *Table2D[T]) Set(i, j int, v T) {
	t.elements[t.offset(i, j)] = v
}

// Len returns the number of elements in the table.
func (t *Table2D[T]) Len() int {
	return len(t.elements)
}

// Bounds returns the inclusive index range of both axes.
func (t *Table2D[T]) Bounds() (lo0, hi0, lo1, hi1 int) {
	return t.lo0, t.hi0, t.lo1, t.hi1
}

// ForEach visits every element in ascending lexicographic index order: the
// first coordinate moves slowest, the second fastest. The sweep order of
// the solver depends on this ordering, so it is fixed.
func (t *Table2D[T]) ForEach(visit func(i, j int, v T)) {
	for o, v := range t.elements {
		visit(t.lo0+o/t.stride, t.lo1+o%t.stride, v)
	}
}

func (t *Table2D[T]) offset(i, j int) int {
	if i < t.lo0 || i > t.hi0 || j < t.lo1 || j > t.hi1 {
		log.Panicf("index (%d, %d) out of table range [%d, %d]x[%d, %d]",
			i, j, t.lo0, t.hi0, t.lo1, t.hi1)
	}

	return (i-t.lo0)*t.stride + (j - t.lo1)
}
