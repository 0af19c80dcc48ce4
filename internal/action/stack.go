package action

import (
	"context"

	"github.com/watchpost/watchpost/internal/config"
	"github.com/watchpost/watchpost/internal/probe"
)

// Probe names, in dashboard display order. The dispatcher uses them to
// short-circuit actions whose precondition is already satisfied.
const (
	ProbeBinary     = "binary"     // inference daemon on PATH
	ProbeService    = "service"    // daemon unit active
	ProbeArtifact   = "artifact"   // exported weights present
	ProbeModel      = "model"      // model loaded in the daemon
	ProbeCORS       = "cors"       // origins override configured
	ProbeTunnelBin  = "tunnelbin"  // tunnel binary on PATH
	ProbeTunnelProc = "tunnelproc" // tunnel process live
)

// CORSVariable is the environment variable the override sets on the unit.
const CORSVariable = "OLLAMA_ORIGINS"

// BuildRegistry assembles the seven stack probes. tunnelAlive folds the
// managed tunnel's liveness into the same snapshot as the environment
// probes, so one tick never mixes results from different refreshes.
func BuildRegistry(cfg config.Config, tunnelAlive func(ctx context.Context) bool) *probe.Registry {
	reg := probe.NewRegistry()
	reg.Register(
		probe.NewBinaryProbe(ProbeBinary, cfg.Daemon.Binary+" installed", "1", cfg.Daemon.Binary),
		probe.NewServiceProbe(ProbeService, cfg.Daemon.Unit+" active", "2", cfg.Daemon.Unit),
		probe.NewFileProbe(ProbeArtifact, "weights exported", "3", cfg.ArtifactPath()),
		probe.NewHTTPBodyProbe(ProbeModel, "model "+cfg.Model.Name+" loaded", "4", cfg.Daemon.URL+"/api/tags", cfg.Model.Name),
		probe.NewUnitEnvProbe(ProbeCORS, "CORS origins set", "5", cfg.Daemon.Unit, "Environment", CORSVariable),
		probe.NewBinaryProbe(ProbeTunnelBin, cfg.Tunnel.Binary+" installed", "6", cfg.Tunnel.Binary),
		probe.NewFuncProbe(ProbeTunnelProc, "tunnel running", "7", tunnelAlive),
	)
	return reg
}
