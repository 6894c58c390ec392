package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	dservice "PumpPulse/internal/domain/service"
	"PumpPulse/internal/usecase"
	pkgch "PumpPulse/pkg/clickhouse"
	"PumpPulse/pkg/config"
	xhttp "PumpPulse/pkg/http"
	applogger "PumpPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	scheduler   *usecase.Scheduler
	collector   *usecase.StreamCollector // nil when the live stream is disabled
	handler     xhttp.Handler
	broadcaster dservice.Broadcaster
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scheduler *usecase.Scheduler,
	collector *usecase.StreamCollector,
	handler xhttp.Handler,
	broadcaster dservice.Broadcaster,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		scheduler:   scheduler,
		collector:   collector,
		handler:     handler,
		broadcaster: broadcaster,
		chClient:    chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)

	// Live stream keeps the price cache warm between aggregation ticks.
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("stream collector error", applogger.Error(err))
			}
		}()
		a.log.Info("stream collector started", applogger.Strings("symbols", a.cfg.Symbols))
	}

	a.scheduler.Start(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("pipeline running",
		applogger.String("env", a.cfg.Environment),
		applogger.Strings("exchanges", a.cfg.ExchangeNames()),
		applogger.Int("port", a.cfg.Server.Port),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.scheduler.Stop()

	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("stream collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.broadcaster != nil {
		if err := a.broadcaster.Close(); err != nil {
			a.log.Warn("broadcaster close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
