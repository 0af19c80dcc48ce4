package probe

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// HTTPTimeout bounds the remote-tag probe. A daemon that takes longer than
// this to answer a local GET counts as down.
const HTTPTimeout = 2 * time.Second

// runCommand runs a command and reports whether it exited zero. Probes use
// this instead of util.ExecRunContext so tests can substitute the runner.
type runCommand func(ctx context.Context, name string, args ...string) error

func defaultRun(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}

// outputCommand runs a command and returns its stdout.
type outputCommand func(ctx context.Context, name string, args ...string) (string, error)

func defaultOutput(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// BinaryProbe checks that a named executable resolves on PATH.
type BinaryProbe struct {
	BaseProbe
	Binary string

	lookPath func(string) (string, error)
}

// NewBinaryProbe creates a binary-present probe.
func NewBinaryProbe(name, description, fixKey, binary string) *BinaryProbe {
	return &BinaryProbe{
		BaseProbe: BaseProbe{ProbeName: name, ProbeDescription: description, ProbeFixKey: fixKey},
		Binary:    binary,
		lookPath:  exec.LookPath,
	}
}

// Run reports whether the binary is resolvable.
func (p *BinaryProbe) Run(ctx context.Context) bool {
	_, err := p.lookPath(p.Binary)
	return err == nil
}

// ServiceProbe checks that a systemd unit is in the running state.
// The unit is queried, never started.
type ServiceProbe struct {
	BaseProbe
	Unit string

	run runCommand
}

// NewServiceProbe creates a service-active probe.
func NewServiceProbe(name, description, fixKey, unit string) *ServiceProbe {
	return &ServiceProbe{
		BaseProbe: BaseProbe{ProbeName: name, ProbeDescription: description, ProbeFixKey: fixKey},
		Unit:      unit,
		run:       defaultRun,
	}
}

// Run reports whether the unit is active. Any failure, systemctl missing
// or unknown unit included, is false.
func (p *ServiceProbe) Run(ctx context.Context) bool {
	return p.run(ctx, "systemctl", "is-active", "--quiet", p.Unit) == nil
}

// FileProbe checks that an artifact exists at a fixed path.
type FileProbe struct {
	BaseProbe
	Path string
}

// NewFileProbe creates a file-exists probe.
func NewFileProbe(name, description, fixKey, path string) *FileProbe {
	return &FileProbe{
		BaseProbe: BaseProbe{ProbeName: name, ProbeDescription: description, ProbeFixKey: fixKey},
		Path:      path,
	}
}

// Run reports whether the file exists.
func (p *FileProbe) Run(ctx context.Context) bool {
	info, err := os.Stat(p.Path)
	return err == nil && !info.IsDir()
}

// HTTPBodyProbe issues a bounded GET to a local endpoint and tests the
// response body for a case-insensitive substring.
type HTTPBodyProbe struct {
	BaseProbe
	URL       string
	Substring string

	client *http.Client
}

// NewHTTPBodyProbe creates a remote-tag-contains probe.
func NewHTTPBodyProbe(name, description, fixKey, url, substring string) *HTTPBodyProbe {
	return &HTTPBodyProbe{
		BaseProbe: BaseProbe{ProbeName: name, ProbeDescription: description, ProbeFixKey: fixKey},
		URL:       url,
		Substring: substring,
		client:    &http.Client{Timeout: HTTPTimeout},
	}
}

// Run reports whether a 2xx response body contains the substring.
// Connection failures, timeouts and non-2xx statuses are all false.
func (p *HTTPBodyProbe) Run(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	fold := cases.Fold()
	return strings.Contains(fold.String(string(body)), fold.String(p.Substring))
}

// UnitEnvProbe queries a unit's effective environment configuration and
// tests a property for a substring.
type UnitEnvProbe struct {
	BaseProbe
	Unit      string
	Property  string
	Substring string

	output outputCommand
}

// NewUnitEnvProbe creates a config-property-contains probe.
func NewUnitEnvProbe(name, description, fixKey, unit, property, substring string) *UnitEnvProbe {
	return &UnitEnvProbe{
		BaseProbe: BaseProbe{ProbeName: name, ProbeDescription: description, ProbeFixKey: fixKey},
		Unit:      unit,
		Property:  property,
		Substring: substring,
		output:    defaultOutput,
	}
}

// Run reports whether the unit property contains the substring.
func (p *UnitEnvProbe) Run(ctx context.Context) bool {
	out, err := p.output(ctx, "systemctl", "show", p.Unit, "-p", p.Property, "--value")
	if err != nil {
		return false
	}
	return strings.Contains(out, p.Substring)
}

// FuncProbe wraps a plain function as a probe. The dashboard uses it to
// fold the managed tunnel's liveness into the same snapshot as the
// environment probes.
type FuncProbe struct {
	BaseProbe
	Check func(ctx context.Context) bool
}

// NewFuncProbe creates a probe backed by fn.
func NewFuncProbe(name, description, fixKey string, fn func(ctx context.Context) bool) *FuncProbe {
	return &FuncProbe{
		BaseProbe: BaseProbe{ProbeName: name, ProbeDescription: description, ProbeFixKey: fixKey},
		Check:     fn,
	}
}

// Run evaluates the wrapped function, failing closed on nil.
func (p *FuncProbe) Run(ctx context.Context) bool {
	if p.Check == nil {
		return false
	}
	return p.Check(ctx)
}
