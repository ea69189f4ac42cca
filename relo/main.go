// The relo command computes optimal overnight rebalancing policies for a
// two-location rental fleet.
package main

import "github.com/fleetlab/relo/relo/cmd"

func main() {
	cmd.Execute()
}
