// main is the entry point for the ration CLI.
package main

import (
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/cmd"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
