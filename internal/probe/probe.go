// Package probe provides a framework for boolean health checks against the
// externally managed serving stack.
//
// Probes are stateless and side-effect free; the registry re-evaluates all
// of them together so a snapshot never mixes old and new results. Every
// failure mode (missing binary, timeout, refused connection) maps to
// false. A probe never returns an error and never aborts a refresh.
package probe

import "context"

// Probe is a single named health check.
type Probe interface {
	// Name returns the probe identifier.
	Name() string

	// Description returns a human-readable description of what is checked.
	Description() string

	// FixKey returns the dashboard key that triggers the corrective
	// action for this probe ("1".."7").
	FixKey() string

	// Run evaluates the check. It must fail closed: any execution error
	// is reported as false.
	Run(ctx context.Context) bool
}

// BaseProbe provides the identity methods for concrete probes.
type BaseProbe struct {
	ProbeName        string
	ProbeDescription string
	ProbeFixKey      string
}

// Name returns the probe name.
func (b *BaseProbe) Name() string { return b.ProbeName }

// Description returns the probe description.
func (b *BaseProbe) Description() string { return b.ProbeDescription }

// FixKey returns the key bound to the corrective action.
func (b *BaseProbe) FixKey() string { return b.ProbeFixKey }

// Result is the outcome of one probe for one snapshot.
type Result struct {
	Name        string
	Description string
	FixKey      string
	OK          bool
}

// Snapshot is the immutable aggregate of all probe results for one tick.
// It is built wholesale by RunAll and never mutated afterwards.
type Snapshot struct {
	Results []Result
}

// Passing returns the number of passing probes.
func (s Snapshot) Passing() int {
	n := 0
	for _, r := range s.Results {
		if r.OK {
			n++
		}
	}
	return n
}

// Total returns the number of probes.
func (s Snapshot) Total() int {
	return len(s.Results)
}

// AllOK reports whether every probe passed.
func (s Snapshot) AllOK() bool {
	return s.Passing() == s.Total()
}

// OK returns the result for a named probe, false if unknown.
func (s Snapshot) OK(name string) bool {
	for _, r := range s.Results {
		if r.Name == name {
			return r.OK
		}
	}
	return false
}

// Registry holds an ordered set of probes.
type Registry struct {
	probes []Probe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{probes: make([]Probe, 0)}
}

// Register adds probes in display order.
func (r *Registry) Register(probes ...Probe) {
	r.probes = append(r.probes, probes...)
}

// Probes returns the registered probes.
func (r *Registry) Probes() []Probe {
	return r.probes
}

// RunAll evaluates every probe and returns a fresh snapshot.
func (r *Registry) RunAll(ctx context.Context) Snapshot {
	snap := Snapshot{Results: make([]Result, 0, len(r.probes))}
	for _, p := range r.probes {
		snap.Results = append(snap.Results, Result{
			Name:        p.Name(),
			Description: p.Description(),
			FixKey:      p.FixKey(),
			OK:          p.Run(ctx),
		})
	}
	return snap
}
