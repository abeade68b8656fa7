// Package main provides the entry point for the pulse CLI.
package main

import (
	"os"

	"github.com/randalmurphal/pulse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
