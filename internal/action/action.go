// Package action maps dashboard keys to corrective operations against the
// externally managed stack.
//
// Every operation is idempotent with respect to a satisfied precondition:
// dispatching it again yields an "already satisfied" notification and no
// side effect. Failures from invoked collaborators never escape the
// dispatcher; they come back as notification text.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/watchpost/watchpost/internal/config"
	"github.com/watchpost/watchpost/internal/probe"
	"github.com/watchpost/watchpost/internal/util"
)

// Timeout bounds a single action. Package installs are the slow case.
const Timeout = 5 * time.Minute

// Execer runs external collaborator commands. The default implementation
// shells out; tests substitute a recorder.
type Execer interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

type shellExecer struct{}

func (shellExecer) Run(ctx context.Context, name string, args ...string) error {
	return util.ExecRunContext(ctx, "", name, args...)
}

func (shellExecer) Output(ctx context.Context, name string, args ...string) (string, error) {
	return util.ExecWithOutputContext(ctx, "", name, args...)
}

// Result is the outcome of one dispatch.
type Result struct {
	// Note is the notification text. Always set for a recognized key.
	Note string

	// StartTunnel asks the supervisor loop to start the managed tunnel
	// and drive its URL-capture loop. Set only for the tunnel key when
	// no tunnel is live; the loop owns the process so capture progress
	// can re-render per attempt.
	StartTunnel bool
}

// spec ties a key to an operation and the probe that gates it.
type spec struct {
	Key     string
	Title   string
	Gate    string // probe name; a passing gate short-circuits the action
	Already string // notification when the gate already passes
	Run     func(*Dispatcher, context.Context) (string, error)
}

// Dispatcher executes keyed corrective actions.
type Dispatcher struct {
	cfg    config.Config
	exec   Execer
	logger *slog.Logger
	specs  []spec
}

// New creates a dispatcher using the shell-backed execer.
func New(cfg config.Config, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{cfg: cfg, exec: shellExecer{}, logger: logger}
	d.specs = buildSpecs()
	return d
}

// Titles returns key → action title in key order, for the help view.
func (d *Dispatcher) Titles() []struct{ Key, Title string } {
	out := make([]struct{ Key, Title string }, 0, len(d.specs))
	for _, s := range d.specs {
		out = append(out, struct{ Key, Title string }{s.Key, s.Title})
	}
	return out
}

// Dispatch runs the action bound to key. The snapshot is consulted only to
// short-circuit satisfied preconditions. Returns found=false for keys with
// no bound action.
func (d *Dispatcher) Dispatch(ctx context.Context, key string, snap probe.Snapshot) (Result, bool) {
	for _, s := range d.specs {
		if s.Key != key {
			continue
		}
		if snap.OK(s.Gate) {
			return Result{Note: s.Already}, true
		}
		if s.Run == nil {
			// Tunnel start is driven by the supervisor loop.
			return Result{Note: "starting tunnel…", StartTunnel: true}, true
		}

		ctx, cancel := context.WithTimeout(ctx, Timeout)
		defer cancel()

		d.logger.Info("action dispatched", "key", key, "title", s.Title)
		note, err := s.Run(d, ctx)
		if err != nil {
			d.logger.Warn("action failed", "key", key, "err", err)
			return Result{Note: fmt.Sprintf("%s failed: %v", s.Title, err)}, true
		}
		return Result{Note: note}, true
	}
	return Result{}, false
}

func buildSpecs() []spec {
	return []spec{
		{
			Key: "1", Title: "install daemon", Gate: ProbeBinary,
			Already: "daemon already installed",
			Run:     (*Dispatcher).installDaemon,
		},
		{
			Key: "2", Title: "start service", Gate: ProbeService,
			Already: "service already running",
			Run:     (*Dispatcher).startService,
		},
		{
			Key: "3", Title: "export weights", Gate: ProbeArtifact,
			Already: "weights already exported",
			Run:     (*Dispatcher).runPipeline,
		},
		{
			Key: "4", Title: "load model", Gate: ProbeModel,
			Already: "model already loaded",
			Run:     (*Dispatcher).loadModel,
		},
		{
			Key: "5", Title: "configure CORS", Gate: ProbeCORS,
			Already: "CORS already configured",
			Run:     (*Dispatcher).configureCORS,
		},
		{
			Key: "6", Title: "install tunnel binary", Gate: ProbeTunnelBin,
			Already: "tunnel binary already installed",
			Run:     (*Dispatcher).installTunnelBinary,
		},
		{
			Key: "7", Title: "start tunnel", Gate: ProbeTunnelProc,
			Already: "tunnel already active",
			// Run nil: handled by the supervisor loop via StartTunnel.
		},
	}
}

func (d *Dispatcher) installDaemon(ctx context.Context) (string, error) {
	script := "curl -fsSL https://ollama.com/install.sh | sh"
	if err := d.exec.Run(ctx, "sh", "-c", script); err != nil {
		return "", err
	}
	return d.cfg.Daemon.Binary + " installed", nil
}

func (d *Dispatcher) startService(ctx context.Context) (string, error) {
	if err := d.exec.Run(ctx, "sudo", "systemctl", "enable", "--now", d.cfg.Daemon.Unit); err != nil {
		return "", err
	}
	return d.cfg.Daemon.Unit + " started", nil
}

func (d *Dispatcher) runPipeline(ctx context.Context) (string, error) {
	// The conversion pipeline is a single opaque command judged by its
	// exit status; its internal steps are not watchpost's business.
	if err := d.exec.Run(ctx, "sh", "-c", d.cfg.Pipeline.Command); err != nil {
		return "", err
	}
	return "export pipeline finished", nil
}

// loadModel creates the model in the daemon from the Modelfile. The FROM
// directive decides the path: a local file must already exist (the
// pipeline produces it); a registry name is pulled only when not yet
// available locally.
func (d *Dispatcher) loadModel(ctx context.Context) (string, error) {
	modelfile := d.cfg.ModelfilePath()
	f, err := os.Open(modelfile)
	if err != nil {
		return "", fmt.Errorf("reading model definition: %w", err)
	}
	base, err := ParseBaseRef(f)
	f.Close()
	if err != nil {
		return "", err
	}

	if base.Local {
		path := base.Ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(modelfile), path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("base weights missing: %s (export them first)", base.Ref)
		}
	} else {
		have, err := d.exec.Output(ctx, d.cfg.Daemon.Binary, "list")
		if err != nil {
			return "", fmt.Errorf("listing local models: %w", err)
		}
		if !strings.Contains(have, base.Ref) {
			if err := d.exec.Run(ctx, d.cfg.Daemon.Binary, "pull", base.Ref); err != nil {
				return "", fmt.Errorf("pulling %s: %w", base.Ref, err)
			}
		}
	}

	if err := d.exec.Run(ctx, d.cfg.Daemon.Binary, "create", d.cfg.Model.Name, "-f", modelfile); err != nil {
		return "", fmt.Errorf("creating %s: %w", d.cfg.Model.Name, err)
	}
	return "model " + d.cfg.Model.Name + " loaded", nil
}

func (d *Dispatcher) configureCORS(ctx context.Context) (string, error) {
	overridePath := filepath.Join(d.cfg.CORS.OverrideDir, "override.conf")
	fragment := fmt.Sprintf("[Service]\nEnvironment=%q\n", CORSVariable+"="+d.cfg.CORS.Origins)

	if err := d.exec.Run(ctx, "sudo", "mkdir", "-p", d.cfg.CORS.OverrideDir); err != nil {
		return "", err
	}
	if err := d.exec.Run(ctx, "sudo", "sh", "-c", fmt.Sprintf("printf '%%s' '%s' > %s", fragment, overridePath)); err != nil {
		return "", err
	}
	if err := d.exec.Run(ctx, "sudo", "systemctl", "daemon-reload"); err != nil {
		return "", err
	}
	if err := d.exec.Run(ctx, "sudo", "systemctl", "restart", d.cfg.Daemon.Unit); err != nil {
		return "", err
	}
	return "CORS origins configured, service restarted", nil
}

func (d *Dispatcher) installTunnelBinary(ctx context.Context) (string, error) {
	script := "curl -fsSL https://github.com/cloudflare/cloudflared/releases/latest/download/cloudflared-linux-amd64" +
		" -o /usr/local/bin/" + d.cfg.Tunnel.Binary +
		" && chmod +x /usr/local/bin/" + d.cfg.Tunnel.Binary
	if err := d.exec.Run(ctx, "sudo", "sh", "-c", script); err != nil {
		return "", err
	}
	return d.cfg.Tunnel.Binary + " installed", nil
}
