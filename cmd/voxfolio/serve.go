package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voxfolio/internal/config"
	"voxfolio/internal/metrics"
)

// runServe runs headless until interrupted: content pack watcher, optional
// voice session, and the metrics listener.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Voice.Enabled {
		g.Go(func() error {
			credential, err := a.voiceSignaling().MintCredential(ctx)
			if err != nil {
				return err
			}
			if err := a.voiceMgr.Connect(ctx, credential); err != nil {
				return err
			}
			a.voiceMgr.SetVoiceMode(true)
			<-ctx.Done()
			return nil
		})
	}

	logger.Info("voxfolio serving", zap.String("version", Version))
	return g.Wait()
}
