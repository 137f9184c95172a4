// Package main implements the aicf CLI: thin spf13/cobra commands that
// call directly into the packages under internal/ (spec.md §6). No
// business logic lives here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "aicf",
	Short:   "Conversation memory ingestion pipeline",
	Long:    "aicf reads conversation stores from local AI assistants, caches and analyzes them, and ages the results through a tiered session archive so they can be reloaded into a later assistant session.",
	Version: version,
}
