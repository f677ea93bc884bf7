package main

import (
	"os"

	"github.com/congo-pay/banco/cmd/banco/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
