// Package main implements the firelogger CLI: a demo server that emits
// FireLogger headers and a client that decodes them.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version information
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "firelogger",
	Short: "FireLogger demo server and header decoder",
	Long: `firelogger serves a demo application whose log records travel to the
browser as FireLogger response headers, and decodes such headers from any
server.`,
	Version:      version,
	SilenceUsage: true,
}
