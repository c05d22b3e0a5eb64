// linkmill-catalog seeds or refreshes the platform catalog in postgres.
// Extra JSON sources merge over the embedded seed; -dry-run validates the
// sources without touching the database.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"linkmill/internal/modkit"
	"linkmill/internal/platform/config"
	"linkmill/internal/platform/logger"
	"linkmill/internal/platform/store"

	"linkmill/internal/core/catalog"
	registrymod "linkmill/internal/services/registry/module"
)

type sourceList []string

func (s *sourceList) String() string     { return strings.Join(*s, ",") }
func (s *sourceList) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	var (
		sources sourceList
		dryRun  = flag.Bool("dry-run", false, "parse and validate sources without writing")
	)
	flag.Var(&sources, "source", "extra catalog JSON file, repeatable")
	flag.Parse()

	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = "linkmill-catalog"
	}
	logger.Init(opts)
	l := logger.Get()

	extra := make([][]byte, 0, len(sources))
	for _, path := range sources {
		src, err := os.ReadFile(path) // #nosec G304 operator-supplied path
		if err != nil {
			l.Fatal().Err(err).Str("source", path).Msg("read source failed")
		}
		entries, err := catalog.Parse(src)
		if err != nil {
			l.Fatal().Err(err).Str("source", path).Msg("source rejected")
		}
		l.Info().Str("source", path).Int("platforms", len(entries)).Msg("source ok")
		extra = append(extra, src)
	}

	if *dryRun {
		merged := catalog.Load(extra...)
		l.Info().Int("platforms", len(merged)).Msg("dry run, merged catalog validates")
		return
	}

	root := config.New()
	cfg := store.FromConf(root)
	cfg.CH.Enabled = false
	cfg.RDS.Enabled = false

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Cfg: root, PG: st.PG, Log: *l}
	reg := registrymod.New(deps)

	n, err := reg.Service().Reload(ctx, extra...)
	if err != nil {
		l.Fatal().Err(err).Msg("catalog reload failed")
	}
	l.Info().Int("platforms", n).Msg("catalog seeded")
}
