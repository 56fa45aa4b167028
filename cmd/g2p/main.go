// Package main provides the g2p command-line tool.
package main

import (
	"os"

	"github.com/soghomon-b/g2p/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
