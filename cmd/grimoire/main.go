// Package main provides the entry point for the grimoire CLI.
package main

import (
	"os"

	"github.com/spellcaster/grimoire/cmd/grimoire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
