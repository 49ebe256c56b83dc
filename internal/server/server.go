package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
type Handler interface {
	http.Handler
	Routes() []string // path patterns this handler serves
}

// Router defines HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// LoopbackServer serves a handler on a local address until shut down.
type LoopbackServer struct {
	srv      *http.Server
	listener net.Listener
	errs     chan error
}

// Start listens on addr and serves h in the background.
func Start(addr string, h http.Handler) (*LoopbackServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &LoopbackServer{
		srv: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: listener,
		errs:     make(chan error, 1),
	}

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return s, nil
}

// Addr returns the bound address, useful when addr used port 0.
func (s *LoopbackServer) Addr() string {
	return s.listener.Addr().String()
}

// Errors receives a serve error, if any.
func (s *LoopbackServer) Errors() <-chan error {
	return s.errs
}

// Shutdown gracefully stops the server.
func (s *LoopbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// LoggingMiddleware logs each request's method, path, status and duration at debug level.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("callback request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
