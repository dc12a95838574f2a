// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/aggregator/internal/connector"
	"github.com/mia-platform/aggregator/internal/info"
	"github.com/mia-platform/aggregator/internal/logger"
)

const (
	loggerName = "aggregator:server"
)

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// Server is a runnable HTTP surface.
type Server interface {
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
}

type httpServer struct {
	Config

	app *fiber.App
}

// NewServer reads its configuration from the environment and returns a Server exposing conn.
func NewServer(ctx context.Context, conn connector.DataAccessConnector) (Server, error) {
	cfg, err := LoadServerConfig()
	if err != nil {
		return nil, err
	}

	return newHTTPServer(ctx, *cfg, conn), nil
}

func newHTTPServer(ctx context.Context, cfg Config, conn connector.DataAccessConnector) *httpServer {
	app := fiber.New(fiber.Config{
		AppName:               info.AppName,
		DisableStartupMessage: cfg.DisableStartupMessage,
		Immutable:             true,
		ErrorHandler:          fiberErrorHandler,
	})

	log := logger.FromContext(ctx)
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/-/"}))

	statusRoutes(app, conn)
	modelRoutes(app, conn)

	return &httpServer{
		Config: cfg,
		app:    app,
	}
}

func (s *httpServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *httpServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *httpServer) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).WithName(loggerName)
	go func() {
		log.Info("starting server", "host", s.HTTPHost, "port", s.HTTPPort)
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}
