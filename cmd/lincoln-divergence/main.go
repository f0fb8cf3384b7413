package main

import (
	"fmt"
	"os"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
