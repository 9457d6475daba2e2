// Package main is the entry point of the sqllab CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqllab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
