// Package main is the entry point for the fincalc CLI.
package main

import (
	"os"

	"fincalc/cmd/fincalc/cmd"
	"fincalc/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
