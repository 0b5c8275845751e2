// Package http serves the quote and notification API over gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/platform/config"
)

// Server is the API listener. Register routes on Engine before Run.
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	cfg     config.ServerConfig
	logger  *slog.Logger
}

// New builds a Server whose request bodies, including clippings imports,
// are capped at cfg.MaxRequestSize.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxRequestSize)
		c.Next()
	})

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:     *cfg,
		logger:  logger,
	}
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Run listens on Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then drains in-flight requests
// for at most the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("serving API", slog.String("addr", ln.Addr().String()))
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve API: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("draining API requests", slog.Duration("timeout", s.cfg.ShutdownTimeout))

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown API: %w", err)
	}

	return nil
}
