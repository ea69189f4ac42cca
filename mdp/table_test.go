package mdp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table1D", func() {
	var table *Table1D[string]

	BeforeEach(func() {
		table = NewTable1D[string](-2, 2)
	})

	It("should cover the inclusive range", func() {
		Expect(table.Len()).To(Equal(5))

		lo, hi := table.Bounds()
		Expect(lo).To(Equal(-2))
		Expect(hi).To(Equal(2))
	})

	It("should read and write at negative indices", func() {
		table.Set(-2, "a")
		table.Set(0, "b")
		table.Set(2, "c")

		Expect(table.Get(-2)).To(Equal("a"))
		Expect(table.Get(0)).To(Equal("b"))
		Expect(table.Get(2)).To(Equal("c"))
	})

	It("should panic on out-of-range access", func() {
		Expect(func() { table.Get(-3) }).To(Panic())
		Expect(func() { table.Get(3) }).To(Panic())
		Expect(func() { table.Set(3, "x") }).To(Panic())
	})

	It("should panic on an inverted range", func() {
		Expect(func() { NewTable1D[int](1, 0) }).To(Panic())
	})

	It("should iterate in ascending index order", func() {
		var visited []int
		table.ForEach(func(i int, _ string) {
			visited = append(visited, i)
		})

		Expect(visited).To(Equal([]int{-2, -1, 0, 1, 2}))
	})
})

var _ = Describe("Table2D", func() {
	var table *Table2D[int]

	BeforeEach(func() {
		table = NewTable2D[int](0, 2, 0, 1)
	})

	It("should cover both ranges", func() {
		Expect(table.Len()).To(Equal(6))

		lo0, hi0, lo1, hi1 := table.Bounds()
		Expect([]int{lo0, hi0, lo1, hi1}).To(Equal([]int{0, 2, 0, 1}))
	})

	It("should read and write", func() {
		table.Set(1, 0, 42)
		table.Set(2, 1, 7)

		Expect(table.Get(1, 0)).To(Equal(42))
		Expect(table.Get(2, 1)).To(Equal(7))
		Expect(table.Get(0, 0)).To(Equal(0))
	})

	It("should panic on out-of-range access", func() {
		Expect(func() { table.Get(3, 0) }).To(Panic())
		Expect(func() { table.Get(0, 2) }).To(Panic())
		Expect(func() { table.Get(-1, 0) }).To(Panic())
		Expect(func() { table.Set(0, -1, 1) }).To(Panic())
	})

	It("should iterate in ascending lexicographic order", func() {
		var visited [][2]int
		table.ForEach(func(i, j, _ int) {
			visited = append(visited, [2]int{i, j})
		})

		Expect(visited).To(Equal([][2]int{
			{0, 0}, {0, 1},
			{1, 0}, {1, 1},
			{2, 0}, {2, 1},
		}))
	})
})
