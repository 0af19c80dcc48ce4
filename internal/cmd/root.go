// Package cmd provides CLI commands for the watchpost tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchpost/watchpost/internal/exitcode"
)

var rootCmd = &cobra.Command{
	Use:     "watchpost",
	Short:   "Supervise a local model server and its public tunnel",
	Version: Version,
	Long: `watchpost keeps a locally hosted model server healthy and reachable.

It probes the serving stack (binary, service, weights, model, CORS,
tunnel) on a fixed interval, shows the results in a dashboard, and maps
each failing check to a one-key corrective action.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitcode.Code(err)
	}
	return exitcode.Success
}
