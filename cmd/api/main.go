package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vet-clinic-console/internal/backend"
	"vet-clinic-console/internal/config"
	"vet-clinic-console/internal/platform/logger"
	"vet-clinic-console/internal/router"
)

// @title Vet Clinic Console API
// @version 1.0
// @description Cambios de estado de citas con su historia clínica.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{App: config.DefaultAppName}).Error("invalid config", map[string]any{"err": err})
		os.Exit(1)
	}
	log := logger.New(cfg.LoggerOptions())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Error("backend unavailable", map[string]any{"err": err, "store": string(cfg.Store())})
		os.Exit(1)
	}
	defer be.Close()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(router.Options{Config: cfg, Logger: log, Backend: be}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second + cfg.ClinicAPITimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", map[string]any{"err": err})
		}
	}()

	log.Info("starting server", map[string]any{"addr": cfg.Addr(), "store": string(be.Kind)})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"err": err})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
