// Package config provides configuration loading for watchpost.
//
// Values come from three layers, later layers winning: compiled-in
// defaults, an optional watchpost.toml next to the executable (or named
// via WATCHPOST_CONFIG), and WATCHPOST_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the default config file looked up next to the executable.
const ConfigFileName = "watchpost.toml"

// Config is the resolved watchpost configuration.
type Config struct {
	Daemon struct {
		Binary string `toml:"binary"` // inference daemon executable name
		Unit   string `toml:"unit"`   // systemd unit
		URL    string `toml:"url"`    // local API base URL
	} `toml:"daemon"`

	Model struct {
		Name      string `toml:"name"`      // model name as served by the daemon
		Modelfile string `toml:"modelfile"` // model definition artifact
		Artifact  string `toml:"artifact"`  // exported weights file (relative to the executable unless absolute)
	} `toml:"model"`

	CORS struct {
		Origins     string `toml:"origins"`      // value for the origins environment variable
		OverrideDir string `toml:"override_dir"` // systemd drop-in directory
	} `toml:"cors"`

	Tunnel struct {
		Binary string `toml:"binary"` // tunnel executable name
		Domain string `toml:"domain"` // public hostname suffix to capture
		Target string `toml:"target"` // local URL the tunnel exposes
	} `toml:"tunnel"`

	Pipeline struct {
		Command string `toml:"command"` // opaque conversion/export pipeline
	} `toml:"pipeline"`
}

// Default returns the compiled-in configuration for a stock
// ollama + cloudflared stack.
func Default() Config {
	var c Config
	c.Daemon.Binary = "ollama"
	c.Daemon.Unit = "ollama.service"
	c.Daemon.URL = "http://127.0.0.1:11434"
	c.Model.Name = "local-model"
	c.Model.Modelfile = "Modelfile"
	c.Model.Artifact = "models/model.gguf"
	c.CORS.Origins = "*"
	c.CORS.OverrideDir = "/etc/systemd/system/ollama.service.d"
	c.Tunnel.Binary = "cloudflared"
	c.Tunnel.Domain = "trycloudflare.com"
	c.Tunnel.Target = "http://127.0.0.1:11434"
	c.Pipeline.Command = "scripts/export-model.sh"
	return c
}

// Load resolves the configuration: defaults, then the config file if one
// exists, then environment overrides. A missing file is not an error; a
// malformed one is.
func Load() (Config, error) {
	c := Default()

	path := os.Getenv("WATCHPOST_CONFIG")
	if path == "" {
		path = filepath.Join(exeDir(), ConfigFileName)
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return c, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnv(&c)
	return c, nil
}

// applyEnv overlays WATCHPOST_* environment variables.
func applyEnv(c *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Daemon.Binary, "WATCHPOST_DAEMON_BINARY")
	set(&c.Daemon.Unit, "WATCHPOST_DAEMON_UNIT")
	set(&c.Daemon.URL, "WATCHPOST_DAEMON_URL")
	set(&c.Model.Name, "WATCHPOST_MODEL")
	set(&c.Model.Modelfile, "WATCHPOST_MODELFILE")
	set(&c.Model.Artifact, "WATCHPOST_ARTIFACT")
	set(&c.CORS.Origins, "WATCHPOST_CORS_ORIGINS")
	set(&c.Tunnel.Binary, "WATCHPOST_TUNNEL_BINARY")
	set(&c.Tunnel.Domain, "WATCHPOST_TUNNEL_DOMAIN")
	set(&c.Tunnel.Target, "WATCHPOST_TUNNEL_TARGET")
	set(&c.Pipeline.Command, "WATCHPOST_PIPELINE")
}

// ArtifactPath returns the model artifact path, resolved relative to the
// executable when not absolute. The artifact lives in a location fixed
// relative to the supervisor, not the current working directory.
func (c Config) ArtifactPath() string {
	if filepath.IsAbs(c.Model.Artifact) {
		return c.Model.Artifact
	}
	return filepath.Join(exeDir(), c.Model.Artifact)
}

// ModelfilePath returns the Modelfile path, resolved like ArtifactPath.
func (c Config) ModelfilePath() string {
	if filepath.IsAbs(c.Model.Modelfile) {
		return c.Model.Modelfile
	}
	return filepath.Join(exeDir(), c.Model.Modelfile)
}

func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
