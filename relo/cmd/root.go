// Package cmd provides the command-line interface for relo.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "relo",
	Short: "Relo computes optimal overnight rebalancing policies for a " +
		"two-location rental fleet.",
	Long: `Relo models a two-location rental business as a finite discounted ` +
		`Markov decision process and solves it by policy iteration. Rental ` +
		`demand and returns at each location follow truncated Poisson ` +
		`processes; the solver finds how many vehicles to move overnight ` +
		`from every inventory configuration.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can pre-set any RELO_* default. Missing files are fine.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
