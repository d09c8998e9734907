// Package main provides the tikey command, a MySQL to TiDB compatibility checker.
package main

import (
	"os"

	"github.com/leapstack-labs/tikey/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
