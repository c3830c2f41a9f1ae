// Package main implements the talent_agent CLI tool for multi-agent resource allocation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talent_agent",
	Short: "Multi-agent talent allocation engine",
	Long:  "Talent Allocator assigns employees to open project roles and builds optimized certificate learning paths using an ensemble of weighted scoring agents merged by consensus.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
