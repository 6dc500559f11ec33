// Package main provides the entry point for the codeengine CLI.
package main

import (
	"os"

	"github.com/standardbeagle/codeengine/cmd/codeengine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
