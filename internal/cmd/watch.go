package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/watchpost/watchpost/internal/action"
	"github.com/watchpost/watchpost/internal/config"
	"github.com/watchpost/watchpost/internal/exitcode"
	"github.com/watchpost/watchpost/internal/logging"
	"github.com/watchpost/watchpost/internal/tui/dashboard"
	"github.com/watchpost/watchpost/internal/tunnel"
	"github.com/watchpost/watchpost/internal/ui"
	"github.com/watchpost/watchpost/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the supervision dashboard",
	Long: `Open the interactive dashboard.

The dashboard re-probes the serving stack every few seconds and maps
each failing check to a number key. It refuses to start outside an
interactive terminal or on one smaller than 80x24.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	// Bare `watchpost` opens the dashboard.
	rootCmd.RunE = runWatch
	rootCmd.Args = cobra.NoArgs
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return exitcode.NoTerminal()
	}
	if w, h, err := ui.Size(); err == nil && (w < ui.MinWidth || h < ui.MinHeight) {
		return exitcode.SmallDisplay(w, h, ui.MinWidth, ui.MinHeight)
	}

	lock := util.NewInstanceLock(lockPath())
	held, err := lock.TryAcquire()
	if err != nil {
		return exitcode.Wrap(exitcode.ErrGeneral, "acquiring instance lock", err)
	}
	if !held {
		return exitcode.LockHeld(lock.Path())
	}
	defer lock.Release()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closer := logging.Open(stateDir())
	defer closer.Close()

	mgr := tunnel.New(tunnel.Config{
		Binary: cfg.Tunnel.Binary,
		Target: cfg.Tunnel.Target,
		Domain: cfg.Tunnel.Domain,
	}, logger)

	registry := action.BuildRegistry(cfg, mgr.AliveCtx)
	dispatcher := action.New(cfg, logger)

	model := dashboard.New(registry, mgr, dispatcher, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}

	kill := false
	if m, ok := final.(*dashboard.Model); ok {
		kill = m.KillOnExit()
	}
	mgr.Teardown(kill)
	return nil
}

// stateDir is where the lock and the rotated log live.
func stateDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "watchpost")
}

func lockPath() string {
	return filepath.Join(stateDir(), "watchpost.lock")
}
