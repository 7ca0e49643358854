// Package main provides the leapscript CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapscript/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
