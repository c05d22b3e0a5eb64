// Package engine assembles the health and selection modules behind one
// explicitly constructed facade. Nothing here is a singleton: every
// collaborator arrives through Deps and tests swap any of them
package engine

import (
	"context"

	"linkmill/internal/core/catalog"
	"linkmill/internal/modkit"
	"linkmill/internal/modkit/module"

	statsdom "linkmill/internal/services/api/stats/domain"
	statsmod "linkmill/internal/services/api/stats/module"
	attemptsdom "linkmill/internal/services/attempts/domain"
	attemptsmod "linkmill/internal/services/attempts/module"
	healthdom "linkmill/internal/services/health/domain"
	healthmod "linkmill/internal/services/health/module"
	pickerdom "linkmill/internal/services/picker/domain"
	pickermod "linkmill/internal/services/picker/module"
	registrydom "linkmill/internal/services/registry/domain"
	registrymod "linkmill/internal/services/registry/module"
	rotationdom "linkmill/internal/services/rotation/domain"
	rotationmod "linkmill/internal/services/rotation/module"
	triagemod "linkmill/internal/services/triage/module"
)

// Ports are the wired collaborators the engine delegates to
type Ports struct {
	Rotator  rotationdom.RotatorPort
	Tracker  attemptsdom.TrackerPort
	Health   healthdom.StorePort
	Registry registrydom.RegistryPort
	Stats    statsdom.ServicePort
}

// Engine is the publish scheduling facade
type Engine struct {
	ports Ports
}

// New wires the full module graph from deps.
// Wiring order follows the dependency arrows: health first, then triage on
// health, attempts on both, rotation on attempts plus picker
func New(deps modkit.Deps) *Engine {
	healthM := healthmod.New(deps, healthmod.FromConfig(deps.Cfg))
	triageM := triagemod.New(deps, healthM.Service())
	attemptsM := attemptsmod.New(deps, healthM.Service(), triageM.Service())
	pickerM := pickermod.New(deps, pickermod.FromConfig(deps.Cfg))
	rotationM := rotationmod.New(deps, attemptsM.Service(), pickerM.Service())
	registryM := registrymod.New(deps)
	statsM := statsmod.New(deps)

	for _, m := range []module.Module{healthM, triageM, attemptsM, pickerM, rotationM, registryM, statsM} {
		module.Register(m.Name(), m.Ports())
	}

	return NewWithPorts(Ports{
		Rotator:  rotationM.Service(),
		Tracker:  attemptsM.Service(),
		Health:   healthM.Service(),
		Registry: registryM.Service(),
		Stats:    module.MustPortsOf[statsdom.ServicePort](statsM),
	})
}

// NewWithPorts builds an engine from pre-wired ports
func NewWithPorts(p Ports) *Engine {
	if p.Rotator == nil || p.Tracker == nil || p.Health == nil || p.Registry == nil || p.Stats == nil {
		panic("engine: all ports are required")
	}
	return &Engine{ports: p}
}

// NextPlatform picks the platform the campaign should publish to next.
// nil with no error means the whole eligible pool is exhausted
func (e *Engine) NextPlatform(ctx context.Context, campaignID string, c pickerdom.Criteria) (*pickerdom.Candidate, error) {
	return e.ports.Rotator.NextPlatform(ctx, campaignID, c)
}

// BeginAttempt records a pending attempt against the platform
func (e *Engine) BeginAttempt(ctx context.Context, campaignID, platformID string) (attemptsdom.Attempt, error) {
	return e.ports.Tracker.Begin(ctx, campaignID, platformID)
}

// ReportSuccess completes the attempt and folds it into platform health
func (e *Engine) ReportSuccess(ctx context.Context, attemptID, publishedURL string, responseTimeMS int64) error {
	return e.ports.Tracker.ReportSuccess(ctx, attemptID, publishedURL, responseTimeMS)
}

// ReportFailure completes the attempt, folds health and triages the failure
func (e *Engine) ReportFailure(ctx context.Context, attemptID, errorMessage string, responseTimeMS int64) error {
	return e.ports.Tracker.ReportFailure(ctx, attemptID, errorMessage, responseTimeMS)
}

// ReportTimeout completes the attempt as timed out and triages it
func (e *Engine) ReportTimeout(ctx context.Context, attemptID string, responseTimeMS int64) error {
	return e.ports.Tracker.ReportTimeout(ctx, attemptID, responseTimeMS)
}

// Health exposes per-platform health state
func (e *Engine) Health(ctx context.Context, platformID string) (healthdom.Record, error) {
	return e.ports.Health.Get(ctx, platformID)
}

// Platform resolves a platform entry by id, domain, or alias
func (e *Engine) Platform(ctx context.Context, ref string) (catalog.Entry, error) {
	return e.ports.Registry.Resolve(ctx, ref)
}

// Stats returns fleet attempt and health totals
func (e *Engine) Stats(ctx context.Context) (statsdom.Overview, error) {
	return e.ports.Stats.Overview(ctx)
}
