package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"camstation/internal/config"
	"camstation/internal/logger"
	"camstation/internal/repository"
	"camstation/internal/repository/backend"
	"camstation/internal/route"
	"camstation/internal/service/ai/dnn"
	"camstation/internal/service/camera"
	"camstation/internal/service/capture"
	"camstation/internal/service/redact"
	"camstation/internal/service/storage"
	"camstation/internal/service/websocket"

	"github.com/benbjohnson/clock"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config    *config.Config
	logger    *logger.Logger
	store     repository.SessionLogStore
	images    *storage.ImageStore
	hub       *websocket.HubService
	inference *dnn.Service
	camera    *camera.Device
	loop      *capture.Loop
}

// NewApp loads the configuration and opens every resource the station needs.
// Whatever was opened before a failure is released again.
func NewApp() (*App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &App{config: cfg, logger: log}
	if err := a.open(); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) open() error {
	var err error
	cfg, log := a.config, a.logger

	if a.store, err = backend.Open(cfg, log); err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}
	if a.images, err = storage.NewImageStore(cfg.ImageDirectory, log); err != nil {
		return fmt.Errorf("failed to prepare image directory: %w", err)
	}
	if a.inference, err = dnn.NewService(cfg, log); err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}
	if a.camera, err = camera.Open(cfg, log); err != nil {
		return err
	}

	a.hub = websocket.NewHubService(log)

	clk := clock.New()
	gate := capture.NewGate(clk, cfg.CaptureInterval, cfg.CaptureFirstImmediately)
	redactor := redact.New(cfg.BlurSigma, cfg.FacePadding)
	a.loop = capture.NewLoop(a.camera, a.inference, a.images, a.store, a.hub, gate, redactor, clk, cfg, log)
	a.loop.OnAppend(a.hub.PublishRecord)
	return nil
}

// Run serves the dashboard and runs the frame loop until SIGINT or SIGTERM.
func (a *App) Run() error {
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           route.SetupRoutes(a.store, a.images, a.hub, a.loop, a.config, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := a.loop.Run(ctx); err != nil {
			a.logger.Error("Frame loop exited: %v", err)
		}
	}()

	a.logger.Info("Camera station listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Images: %s, session log: %s (%s)", a.config.ImageDirectory, backend.Target(a.config), a.config.LogBackend)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down")
	case runErr = <-serveErr:
		a.logger.Error("HTTP server failed: %v", runErr)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warning("HTTP shutdown: %v", err)
	}

	wg.Wait()
	return runErr
}

// close releases resources in reverse order of opening.
func (a *App) close() {
	if a.camera != nil {
		if err := a.camera.Close(); err != nil {
			a.logger.Warning("Closing camera: %v", err)
		}
	}
	if a.inference != nil {
		if err := a.inference.Close(); err != nil {
			a.logger.Warning("Closing models: %v", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warning("Closing session log: %v", err)
		}
	}
	_ = a.logger.Sync()
}
