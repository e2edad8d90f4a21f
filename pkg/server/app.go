package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	"github.com/gannontraynor/marketPulse/pkg/config"
	xhttp "github.com/gannontraynor/marketPulse/pkg/http"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

// App encapsulates the API server lifecycle: HTTP serving, signal
// handling, and orderly teardown of the bar store and publisher.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    xhttp.Handler
	store      domrepo.BarStore
	publisher  domrepo.Publisher // nil when Kafka is disabled
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	store domrepo.BarStore,
	publisher domrepo.Publisher,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handler:   handler,
		store:     store,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("api server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("backend", a.cfg.Backend.Type),
		applogger.Strings("symbols", a.cfg.Signals.Symbols),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.l.Warn("bar store close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
