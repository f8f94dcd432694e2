package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"recipebox/handlers"
	"recipebox/scrape"
	"recipebox/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recipes, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer recipes.Close()

	h := &handlers.Handler{
		Store:                recipes,
		Importer:             scrape.New(cfg.GetImportTimeout(), cfg.Import.UserAgent),
		ImageClient:          &http.Client{Timeout: cfg.GetImageTimeout()},
		ImageHeight:          cfg.Images.Height,
		ImageMaxWidth:        cfg.Images.MaxWidth,
		ImageMaxBytes:        cfg.Images.MaxBytes,
		DefaultViewportWidth: cfg.Server.DefaultViewportWidth,
		Logger:               logger,
	}
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.WithCORS(handlers.NewRouter(h), cfg.Server.AllowedOrigins),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
