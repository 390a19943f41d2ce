// Command vcnoc simulates a virtual channel router described in a YAML file.
package main

import "github.com/sarchlab/vcnoc/cmd/vcnoc/cmd"

func main() {
	cmd.Execute()
}
