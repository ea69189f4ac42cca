package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fleetlab/relo/mdp"
	"github.com/fleetlab/relo/monitoring"
	"github.com/fleetlab/relo/recording"
	"github.com/fleetlab/relo/solve"
)

var solveFlags struct {
	bound       int
	moveLimit   int
	rentRate0   float64
	rentRate1   float64
	returnRate0 float64
	returnRate1 float64
	rentReward  float64

	discount float64
	theta    float64
	maxIter  int

	freeShuttle  bool
	parkingLimit int
	parkingCost  float64
	withChange   bool

	parallel    bool
	monitor     bool
	openBrowser bool
	verbose     bool
	output      string
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the rebalancing MDP and print the optimal policy",
	RunE:  runSolve,
}

//nolint:funlen // flag registration is long but trivial.
func init() {
	f := solveCmd.Flags()

	f.IntVar(&solveFlags.bound, "bound",
		envInt("RELO_BOUND", 20),
		"inventory bound per location")
	f.IntVar(&solveFlags.moveLimit, "move-limit",
		envInt("RELO_MOVE_LIMIT", 5),
		"maximum vehicles moved overnight")
	f.Float64Var(&solveFlags.rentRate0, "rent-rate-0",
		envFloat("RELO_RENT_RATE_0", 3),
		"Poisson rental demand rate at location 0")
	f.Float64Var(&solveFlags.rentRate1, "rent-rate-1",
		envFloat("RELO_RENT_RATE_1", 4),
		"Poisson rental demand rate at location 1")
	f.Float64Var(&solveFlags.returnRate0, "return-rate-0",
		envFloat("RELO_RETURN_RATE_0", 3),
		"Poisson return rate at location 0")
	f.Float64Var(&solveFlags.returnRate1, "return-rate-1",
		envFloat("RELO_RETURN_RATE_1", 2),
		"Poisson return rate at location 1")
	f.Float64Var(&solveFlags.rentReward, "rent-reward",
		envFloat("RELO_RENT_REWARD", 10),
		"reward per expected rental")

	f.Float64Var(&solveFlags.discount, "discount",
		envFloat("RELO_DISCOUNT", 0.9),
		"discount factor, in (0, 1)")
	f.Float64Var(&solveFlags.theta, "theta",
		envFloat("RELO_THETA", 0.1),
		"evaluation convergence threshold")
	f.IntVar(&solveFlags.maxIter, "max-iter",
		envInt("RELO_MAX_ITER", 16),
		"maximum evaluation sweeps per phase")

	f.BoolVar(&solveFlags.withChange, "with-change", false,
		"enable the modified scenario (free shuttle, parking costs)")
	f.BoolVar(&solveFlags.freeShuttle, "free-shuttle", true,
		"one outward move per night is free (with --with-change)")
	f.IntVar(&solveFlags.parkingLimit, "parking-limit", 10,
		"free parking spots per location (with --with-change)")
	f.Float64Var(&solveFlags.parkingCost, "parking-cost", 4,
		"nightly cost of overflowing the parking limit (with --with-change)")

	f.BoolVar(&solveFlags.parallel, "parallel", false,
		"use the parallel (Jacobi) engine instead of the serial one")
	f.BoolVar(&solveFlags.monitor, "monitor", false,
		"serve solver progress over HTTP while running")
	f.BoolVar(&solveFlags.openBrowser, "open-browser", false,
		"open the monitor page in the default browser")
	f.BoolVar(&solveFlags.verbose, "verbose", false,
		"dump per-state transition details after solving")
	f.StringVar(&solveFlags.output, "output", "",
		"record the solution into <output>.sqlite3")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(_ *cobra.Command, _ []string) error {
	g, err := buildGraph()
	if err != nil {
		return err
	}

	fmt.Println("reward:")
	printRewardGrid(g)

	p := mdp.NewPolicy(solveFlags.bound)

	engine, err := makeEngine(g, p)
	if err != nil {
		return err
	}

	engine.AcceptHook(progressPrinter{graph: g, policy: p})

	if solveFlags.monitor {
		monitor := monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		monitor.StartServer()

		if solveFlags.openBrowser {
			monitor.OpenBrowser()
		}
	}

	res, err := engine.Run()
	if err != nil {
		return err
	}

	if !res.Converged {
		fmt.Fprintf(os.Stderr,
			"note: an evaluation phase hit the %d-sweep cap before reaching "+
				"theta; values are an approximation\n", solveFlags.maxIter)
	}

	fmt.Printf("finished in %d iterations (%d sweeps)\n",
		res.Iterations, res.Sweeps)

	fmt.Println("policy:")
	printPolicyGrid(g, p)
	fmt.Println("value:")
	printValueGrid(g)

	if solveFlags.verbose {
		printDetail(g, p, solveFlags.discount)
	}

	if solveFlags.output != "" {
		rec := recording.New(solveFlags.output)
		recording.RecordSolution(rec, g, p, solveFlags.discount)
		fmt.Fprintf(os.Stderr, "solution recorded to %s.sqlite3\n",
			solveFlags.output)
	}

	return nil
}

func buildGraph() (*mdp.Graph, error) {
	b := mdp.MakeGraphBuilder().
		WithBound(solveFlags.bound).
		WithMoveLimit(solveFlags.moveLimit).
		WithRentalRates(solveFlags.rentRate0, solveFlags.rentRate1).
		WithReturnRates(solveFlags.returnRate0, solveFlags.returnRate1).
		WithRentalReward(solveFlags.rentReward)

	if solveFlags.withChange {
		b = b.WithChange(mdp.Change{
			FreeShuttle:  solveFlags.freeShuttle,
			ParkingLimit: solveFlags.parkingLimit,
			ParkingCost:  solveFlags.parkingCost,
		})
	}

	return b.Build()
}

func makeEngine(g *mdp.Graph, p *mdp.Policy) (solve.Engine, error) {
	params := solve.Params{
		Discount: solveFlags.discount,
		Theta:    solveFlags.theta,
		MaxIter:  solveFlags.maxIter,
	}

	if solveFlags.parallel {
		return solve.NewParallelEngine(g, p, params)
	}

	return solve.NewSerialEngine(g, p, params)
}

// progressPrinter mirrors the improvement progress on stdout: one line per
// sweep on stderr, the intermediate policy grid after each improvement.
type progressPrinter struct {
	graph  *mdp.Graph
	policy *mdp.Policy
}

func (p progressPrinter) Func(ctx solve.HookCtx) {
	switch ctx.Pos {
	case solve.HookPosSweepEnd:
		fmt.Fprintf(os.Stderr, "iteration %d sweep %d: delta %.4f\n",
			ctx.Iteration, ctx.Sweep, ctx.Delta)
	case solve.HookPosImproveEnd:
		fmt.Printf("improvement %d: %d states changed\n",
			ctx.Iteration, ctx.Changed)
		printPolicyGrid(p.graph, p.policy)
	}
}

func envInt(name string, fallback int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}

	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}

	return fallback
}
