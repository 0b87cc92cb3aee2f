// Package main provides the vlcompile command.
package main

import (
	"os"

	"github.com/mapd/vlcompile/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
