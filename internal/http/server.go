package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/edunexus/internal/config"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

// Server envuelve el http.Server con los timeouts de config.
type Server struct {
	srv *http.Server
}

func NewServer(cfg *config.Config, handler http.Handler) *Server {
	readTO, _ := time.ParseDuration(cfg.Server.ReadTimeout)
	writeTO, _ := time.ParseDuration(cfg.Server.WriteTimeout)

	return &Server{srv: &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       readTO,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTO,
		IdleTimeout:       60 * time.Second,
	}}
}

// Start bloquea hasta que el listener cae.
func (s *Server) Start() error {
	logger.Named("http").Info("listening", logger.Any("addr", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drena conexiones en curso.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
