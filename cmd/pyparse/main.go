// Command pyparse is a thin CLI over the python/* packages: tokenize,
// parse, and check Python source files from the command line.
//
// Grounded on cmd/cue's split between a minimal main.go and a cobra
// command tree in an internal package.
package main

import (
	"fmt"
	"os"

	"github.com/gopythonic/pyparse/cmd/pyparse/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
