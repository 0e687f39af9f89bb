package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/available/internal/adapters/blob"
	router "github.com/dkeye/available/internal/adapters/http"
	"github.com/dkeye/available/internal/app"
	"github.com/dkeye/available/internal/app/orch"
	"github.com/dkeye/available/internal/config"
	"github.com/dkeye/available/internal/core"
)

const shutdownTimeout = 5 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return 1
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load availability catalog")
		return 1
	}
	topics, err := core.NewTopicStore()
	if err != nil {
		log.Error().Err(err).Msg("failed to create topic store")
		return 1
	}

	// connCtx outlives srv.Shutdown, which does not wait for hijacked
	// websocket connections; canceling it closes them.
	connCtx, closeConns := context.WithCancel(context.Background())
	defer closeConns()

	blobs, err := blob.New(connCtx, cfg.Blob)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Blob.Driver).Msg("failed to open blob store")
		return 1
	}

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
		Catalog:  catalog,
		Topics:   topics,
	}
	sweeper := app.NewSweeper(o.Rooms, o, app.WithSweepInterval(cfg.SweepInterval))
	sweeper.Start(connCtx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.SetupRouter(connCtx, cfg, o, blobs),
	}

	g, gctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Available server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": srv.Shutdown,
		"sweeper":     sweeper.Stop,
		"websockets": func(context.Context) error {
			closeConns()
			return nil
		},
		"blob-store": func(context.Context) error {
			return blobs.Close()
		},
	})

	select {
	case code := <-wait:
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
		log.Info().Int("code", code).Msg("Server exited gracefully")
		return code
	case <-gctx.Done():
		log.Error().Err(g.Wait()).Msg("server stopped unexpectedly")
		closeConns()
		_ = blobs.Close()
		return 1
	}
}
