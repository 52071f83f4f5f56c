package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"transmate/internal/config"
	"transmate/internal/constants"
	"transmate/internal/gemini"
	"transmate/internal/logging"
	"transmate/internal/progress"
	srv "transmate/internal/server"
	"transmate/internal/session"
	"transmate/internal/tracing"
	"transmate/internal/version"
	log "github.com/sirupsen/logrus"
)

// reloadingModel swaps the upstream client atomically when the configuration
// changes, so an updated API key or endpoint applies without a restart.
type reloadingModel struct {
	client atomic.Pointer[gemini.Client]
}

func (m *reloadingModel) GenerateText(ctx context.Context, model, promptText string) (string, error) {
	return m.client.Load().GenerateText(ctx, model, promptText)
}

func (m *reloadingModel) GenerateImage(ctx context.Context, model, promptText string, image []byte, mimeType string) (string, error) {
	return m.client.Load().GenerateImage(ctx, model, promptText, image, mimeType)
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	if *debug {
		// Routed through the normal env override so reloads keep it.
		os.Setenv("TRANSMATE_DEBUG", "true")
	}

	mgr, err := config.NewManager(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	defer mgr.Close()

	cfg := mgr.Get()
	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}
	logging.InstallWebSocketLogging()

	traceShutdown, err := tracing.Init(context.Background())
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	defer func() {
		if err := traceShutdown(context.Background()); err != nil {
			log.WithError(err).Warn("failed to shutdown tracing")
		}
	}()

	log.WithFields(log.Fields{
		"version": version.Version,
		"port":    cfg.Port,
	}).Info("starting transmate")

	if cfg.GeminiAPIKey == "" {
		log.Warn("no Gemini API key configured; translation requests will fail until one is set")
	}

	model := &reloadingModel{}
	model.client.Store(gemini.New(cfg))

	sessions := session.NewStore(time.Duration(cfg.SessionTTLMin)*time.Minute, cfg.HistoryLimit)
	defer sessions.Close()

	progressHub := progress.NewHub()
	defer progressHub.Stop()

	mgr.OnChange(func(next *config.FileConfig) {
		if err := logging.Setup(next); err != nil {
			log.WithError(err).Warn("failed to reapply logging configuration")
		}
		model.client.Store(gemini.New(next))
		log.Info("configuration reloaded")
	})

	engine := srv.BuildEngine(srv.Dependencies{
		Config:   mgr,
		Model:    model,
		Sessions: sessions,
		Progress: progressHub,
	})

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		log.Infof("listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown incomplete")
	}
	log.Info("server stopped")
}
