// Package main is the entry point for the selectpro CLI.
package main

import (
	"os"

	"github.com/runger/selectpro/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
