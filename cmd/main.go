package main

// Main entry point of the application.

import (
	"fmt"
	"os"

	"vortex-swap/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
