package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/HugoSbl/clipster/internal/clipboard"
	"github.com/HugoSbl/clipster/internal/config"
	"github.com/HugoSbl/clipster/internal/httpserver"
	"github.com/HugoSbl/clipster/internal/ingest"
	"github.com/HugoSbl/clipster/internal/logger"
	"github.com/HugoSbl/clipster/internal/storage"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the clipboard monitor and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log := logger.New(cfg.LogLevel, cfg.LogPretty)
		defer func() { _ = log.Sync() }()

		repo, err := storage.NewRepository(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer repo.Close()

		files, err := storage.NewFileStore(cfg.ImagesDir())
		if err != nil {
			return fmt.Errorf("failed to init file storage: %w", err)
		}

		adapter, err := clipboard.NewPollAdapter(cfg.PollInterval(), cfg.SettleDelay(), log)
		if err != nil {
			log.Warn("clipboard unavailable, running headless", logger.Error(err))
			adapter = clipboard.NewHeadlessAdapter()
		}
		defer adapter.Close()

		pipeline := ingest.New(files, cfg.ThumbnailMax, log)
		monitor := clipboard.NewMonitor(adapter, repo, pipeline, files, cfg.MaxItemSize, log)

		// Startup hygiene: drop image files whose row is gone.
		if ids, err := repo.ItemIDs(cmd.Context()); err == nil {
			if n, err := files.CleanupOrphans(ids); err == nil && n > 0 {
				log.Infof("removed %d orphaned image files", n)
			}
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if err := monitor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start monitor: %w", err)
		}

		server := httpserver.New(cfg.ListenAddr, repo, monitor, log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(monitor.Events())
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Infof("received %s, shutting down", sig)
		case err := <-errCh:
			if err != nil {
				log.Error("HTTP server failed", logger.Error(err))
			}
		}

		monitor.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Stop(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
