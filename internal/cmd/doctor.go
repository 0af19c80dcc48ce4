package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/watchpost/watchpost/internal/action"
	"github.com/watchpost/watchpost/internal/config"
	"github.com/watchpost/watchpost/internal/exitcode"
	"github.com/watchpost/watchpost/internal/logging"
	"github.com/watchpost/watchpost/internal/probe"
	"github.com/watchpost/watchpost/internal/tunnel"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run all health probes once and print a report",
	Long: `Run every health probe once, print the results, and exit.

Unlike watch, doctor works in pipes and scripts. The exit code is zero
only when every probe passes.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	mgr := tunnel.New(tunnel.Config{
		Binary: cfg.Tunnel.Binary,
		Target: cfg.Tunnel.Target,
		Domain: cfg.Tunnel.Domain,
	}, logging.Discard())

	registry := action.BuildRegistry(cfg, mgr.AliveCtx)
	snap := registry.RunAll(cmd.Context())

	probe.PrintReport(os.Stdout, snap)
	if !snap.AllOK() {
		return exitcode.Newf(exitcode.ErrChecksFailed, "%d of %d checks failing",
			snap.Total()-snap.Passing(), snap.Total())
	}
	return nil
}
