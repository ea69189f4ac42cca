package mdp

// A Policy is a dense mapping from every count pair to the move chosen
// there. A fresh policy assigns the no-move action everywhere.
type Policy struct {
	table *Table2D[int]
	bound int
}

// NewPolicy creates a policy over the count pairs in [0, bound]^2.
func NewPolicy(bound int) *Policy {
	return &Policy{
		table: NewTable2D[int](0, bound, 0, bound),
		bound: bound,
	}
}

// ActionAt returns the move assigned to the given count pair.
func (p *Policy) ActionAt(count [2]int) int {
	return p.table.Get(count[0], count[1])
}

// SetAction assigns a move to the given count pair.
func (p *Policy) SetAction(count [2]int, move int) {
	p.table.Set(count[0], count[1], move)
}

// Bound returns the inventory bound the policy covers.
func (p *Policy) Bound() int {
	return p.bound
}

// ForEach visits every assignment in ascending count-pair order.
func (p *Policy) ForEach(visit func(count [2]int, move int)) {
	p.table.ForEach(func(m, n, move int) {
		visit([2]int{m, n}, move)
	})
}
