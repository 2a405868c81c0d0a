// Package main provides the entry point for the rocket assembler server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"rocket-assembler/internal/api"
	"rocket-assembler/internal/app"
	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/catalog"
	"rocket-assembler/internal/coords"
	"rocket-assembler/internal/interaction"
	"rocket-assembler/internal/logging"
	"rocket-assembler/internal/persist"
	"rocket-assembler/internal/version"
)

const appID = "io.github.rocketassembler"

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := app.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg app.Config, logger *zap.Logger) error {
	logger.Info("starting", zap.String("version", version.String()))

	var opts []persist.Option
	if cfg.Snapshot.Backend == "preferences" {
		opts = append(opts, persist.WithPreferences(fyneapp.NewWithID(appID).Preferences()))
	}
	snapshots, closer, err := persist.Open(cfg.Snapshot, opts...)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closer.Close()

	store := assembly.New(
		assembly.WithPersister(snapshots),
		assembly.WithLogger(logger),
	)
	store.OnAny(func(ev assembly.Event) {
		logger.Debug("assembly changed",
			zap.Stringer("event", ev.Type),
			zap.Strings("ids", ev.IDs))
	})
	logger.Info("assembly loaded",
		zap.String("backend", cfg.Snapshot.Backend),
		zap.Int("parts", len(store.Parts())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CatalogPath != "" {
		poller := catalog.NewPoller(cfg.CatalogPath, cfg.PollInterval.Duration, store, logger)
		poller.Start(ctx)
		defer poller.Stop()
	}

	sessions := interaction.NewManager(store,
		coords.NewMapper(cfg.View.Scale),
		coords.NewPlanar(cfg.View.Scale, cfg.View.GridStep),
		logger)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.New(store, sessions, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
