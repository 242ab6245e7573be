package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/philly/memo-board/internal/platform/eventbus"
	"github.com/philly/memo-board/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server   *http.Server
	config   Config
	eventBus *eventbus.Bus
	logger   logger.Logger
}

func NewApp(server *http.Server, config Config, eventBus *eventbus.Bus, logger logger.Logger) *App {
	return &App{
		server:   server,
		config:   config,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Run starts the application and handles graceful shutdown
func (a *App) Run() error {
	ctx := context.Background()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting server",
			"address", a.server.Addr,
			"storage_driver", a.config.StorageDriver,
		)
		serverErrors <- a.server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		a.logger.Info(ctx, "shutting down server", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	// Let in-flight event handlers finish before storage is released
	a.eventBus.Wait()
	a.logger.Info(ctx, "server stopped")
	return nil
}
