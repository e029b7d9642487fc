// Package main provides the CLI entry point for queryflow.
package main

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/queryflow/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
