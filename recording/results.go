package recording

import "github.com/fleetlab/relo/mdp"

// An ActionRow records one action of the solved model.
type ActionRow struct {
	Move   int
	Name   string
	Reward float64
}

// A StateRow records one state of the solved model together with its final
// value and the move the policy assigns to it.
type StateRow struct {
	M          int
	N          int
	Name       string
	Reward     float64
	Rent0      float64
	Rent1      float64
	Value      float64
	PolicyMove int
}

// A TransitionRow records one transition and its one-step lookahead value
// at the recorded value function.
type TransitionRow struct {
	FromM  int
	FromN  int
	Move   int
	ToM    int
	ToN    int
	Prob   float64
	Backup float64
}

// RecordSolution writes the solved model, the value function, and the
// policy into the recorder as the tables action, state, and transition.
func RecordSolution(
	r DataRecorder,
	g *mdp.Graph,
	p *mdp.Policy,
	discount float64,
) {
	r.CreateTable("action", ActionRow{})
	g.Actions.ForEach(func(move int, a *mdp.Action) {
		r.InsertData("action", ActionRow{
			Move:   move,
			Name:   a.Desc.Name,
			Reward: a.Reward,
		})
	})

	r.CreateTable("state", StateRow{})
	r.CreateTable("transition", TransitionRow{})
	g.States.ForEach(func(m, n int, s *mdp.State) {
		r.InsertData("state", StateRow{
			M:          m,
			N:          n,
			Name:       s.Desc.Name,
			Reward:     s.Reward,
			Rent0:      s.Desc.Rent[0],
			Rent1:      s.Desc.Rent[1],
			Value:      s.Value,
			PolicyMove: p.ActionAt(s.Count()),
		})

		for _, t := range s.Transitions() {
			r.InsertData("transition", TransitionRow{
				FromM:  t.From[0],
				FromN:  t.From[1],
				Move:   t.Action,
				ToM:    t.To[0],
				ToN:    t.To[1],
				Prob:   t.Prob,
				Backup: t.Backup(g, discount),
			})
		}
	})

	r.Flush()
}
