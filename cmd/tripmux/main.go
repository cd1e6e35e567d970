package main

import (
	"os"

	"github.com/tripmux/tripmux/cmd/tripmux/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
