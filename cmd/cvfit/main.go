// Package main provides the entry point for the CV fit analyzer API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvfit",
	Short: "CV fit analyzer",
	Long:  "cvfit compares a résumé PDF with a job description and reports a narrative assessment and a fit percentage, over HTTP or from the command line.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
