package cmd

import (
	"fmt"

	"github.com/fleetlab/relo/mdp"
)

// The grids print location-0 counts as rows, location-1 counts as columns.

func printRewardGrid(g *mdp.Graph) {
	forEachRow(g, func(s *mdp.State) string {
		return fmt.Sprintf("%.1f", s.Reward)
	})
}

func printValueGrid(g *mdp.Graph) {
	forEachRow(g, func(s *mdp.State) string {
		return fmt.Sprintf("%.1f", s.Value)
	})
}

func printPolicyGrid(g *mdp.Graph, p *mdp.Policy) {
	forEachRow(g, func(s *mdp.State) string {
		return fmt.Sprintf("%+d", p.ActionAt(s.Count()))
	})
}

func forEachRow(g *mdp.Graph, cell func(s *mdp.State) string) {
	column := 0
	g.States.ForEach(func(_, _ int, s *mdp.State) {
		fmt.Printf("\t%s", cell(s))
		column++
		if column > g.Bound {
			column = 0
			fmt.Println()
		}
	})
}

// printDetail dumps every action and state with its transitions, the way
// the solver saw them.
func printDetail(g *mdp.Graph, p *mdp.Policy, discount float64) {
	fmt.Println("action:")
	g.Actions.ForEach(func(_ int, a *mdp.Action) {
		fmt.Printf("\t%s:%.1f\n", a.Desc.Name, a.Reward)
	})

	fmt.Println("state:")
	g.States.ForEach(func(_, _ int, s *mdp.State) {
		fmt.Printf("\t%s|%+d:%.1f | %.1f %.1f | %.1f %.1f\n",
			s.Desc.Name, p.ActionAt(s.Count()), s.Reward,
			s.Desc.Rent[0], s.Desc.Rent[1],
			g.ReturnExp[0], g.ReturnExp[1])

		for _, t := range s.Transitions() {
			fmt.Printf("\t\t%+d:->%v %.1f|%.1f %.2f\n",
				t.Action, t.To, t.Backup(g, discount),
				g.StateAt(t.To).Value, t.Prob)
		}
	})
}
