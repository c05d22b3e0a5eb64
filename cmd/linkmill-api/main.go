// @title         Linkmill API
// @version       0.1.0
// @description   Platform catalog, health and publish stats endpoints

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkmill/internal/platform/config"
	"linkmill/internal/platform/logger"
	phttp "linkmill/internal/platform/net/http"
	"linkmill/internal/platform/store"

	"linkmill/internal/services/api"
)

func main() {
	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = "linkmill-api"
	}
	logger.Init(opts)
	l := logger.Get()

	root := config.New()

	// open the platform store (postgres required, CH and redis optional)
	st, err := store.Open(
		context.Background(),
		store.FromConf(root),
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads API_PORT)
	srv := phttp.NewServer(root)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			EnableSwagger: root.MayBool("API_SWAGGER", true),
		},
	)

	// stop on SIGINT/SIGTERM with a bounded drain
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			l.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
