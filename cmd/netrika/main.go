// Command netrika runs the Netrika moderation service: REST API, WebSocket
// moderation feed, and the Postgres-backed edit ledger.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/netrika/netrika/internal/api"
	"github.com/netrika/netrika/internal/assets"
	"github.com/netrika/netrika/internal/config"
	"github.com/netrika/netrika/internal/db"
	"github.com/netrika/netrika/internal/db/migrations"
	"github.com/netrika/netrika/internal/dbpool"
	"github.com/netrika/netrika/internal/service"
	"github.com/netrika/netrika/internal/store"
	"github.com/netrika/netrika/internal/workflow"
	"github.com/netrika/netrika/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("netrika exited")
	}
}

func run(log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	politicians := store.NewPoliticianStore(base)
	ledger := store.NewLedgerStore(base)
	revisions := store.NewRevisionStore(base)

	hub := ws.NewHub(log)
	worker := service.NewEventWorker(hub, log, cfg.EventQueueSize)

	engine := workflow.NewEngine(ledger, worker, log)
	engine.Register(politicians)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:            log,
		Pool:           pool,
		Hub:            hub,
		Politicians:    politicians,
		Edits:          ledger,
		Revisions:      revisions,
		Workflow:       engine,
		Assets:         assets.NewResolver(cfg.MediaBaseURL),
		IdentityLookup: &base,
		CORSOrigins:    cfg.CORSOrigins,
		Version:        config.Version,
		EnableFeed:     cfg.EnableFeed,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bridge := db.NewNotifyBridge(log, pool, hub)
	if err := bridge.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)

		return nil
	})

	g.Go(func() error {
		worker.Run(gctx)

		return nil
	})

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": config.Version,
		}).Info("netrika listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
