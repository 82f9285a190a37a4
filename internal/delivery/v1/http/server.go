package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/cfg"
)

const (
	defaultPort              = "8080"
	defaultReadHeaderTimeout = 5 * time.Second
	maxHeaderBytes           = 64 << 10
)

type Server struct {
	httpServer *http.Server
}

// NewServer собирает http.Server из конфига. Пустой порт и нулевой
// ReadHeaderTimeout заменяются значениями по умолчанию.
func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	port := cfg.Port
	if port == "" {
		port = defaultPort
	}

	readHeaderTimeout := cfg.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Serve обслуживает уже открытый listener.
func (s *Server) Serve(lis net.Listener) error {
	return s.httpServer.Serve(lis)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
