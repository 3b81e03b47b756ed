// Command memhier runs accesses against a simulated memory hierarchy.
package main

import "github.com/sarchlab/memhier/cmd/memhier/cmd"

func main() {
	cmd.Execute()
}
