package http

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server wraps an HTTP server with address and lifecycle methods.
type Server struct {
	server *http.Server
}

// NewServer creates a Server for the given handler and listen address.
func NewServer(handler http.Handler, addr string) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts serving on the configured address. It blocks until the server
// stops and never returns http.ErrServerClosed.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.server.Addr
}
