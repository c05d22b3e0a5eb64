// Package modkit provides module wiring and core deps
package modkit

import (
	"linkmill/internal/modkit/repokit"
	"linkmill/internal/platform/config"
	"linkmill/internal/platform/logger"
	"linkmill/internal/platform/store"
	ptime "linkmill/internal/platform/time"
)

// Deps holds core dependencies passed to modules.
// This is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	RDS   store.Cache
	Clock ptime.Clock
}

// Now returns the configured clock, defaulting to the system clock
func (d Deps) Now() ptime.Clock {
	if d.Clock != nil {
		return d.Clock
	}
	return ptime.System{}
}
