// Package httpapi exposes the auth services over HTTP/JSON using chi.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	middlewareTimeout = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Pinger reports storage health; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address         string
	adminToken      string
	shutdownTimeout time.Duration
	users           *services.UserService
	sessions        *services.SessionService
	health          Pinger
	logger          logging.Logger
}

// NewServer builds the HTTP adapter. An empty adminToken leaves the
// administrative routes open.
func NewServer(address string, l logging.Logger, us *services.UserService, ss *services.SessionService,
	health Pinger, adminToken string, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		adminToken:      adminToken,
		shutdownTimeout: shutdownTimeout,
		users:           us,
		sessions:        ss,
		health:          health,
		logger:          l.With("module", "http_server"),
	}
}

// Routes returns the router with all middleware attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.logRequests,
		middleware.Recoverer,
		middleware.Timeout(middlewareTimeout),
		cors,
	)

	r.Get("/healthz", s.healthz)

	r.Post("/signup", s.signup)
	r.Post("/login", s.login)
	r.Post("/login_with_auth0", s.loginWithExternalToken)
	r.Post("/logout", s.logout)
	r.Get("/me", s.me)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)

		r.Get("/users", s.listUsers)
		r.Get("/sessions/{user_id}", s.listSessions)
		r.Post("/force_logout", s.forceLogout)

		r.Get("/debug/sessions", s.debugSessions)
		r.Post("/debug/clear_user_sessions", s.clearUserSessions)
		r.Post("/debug/clear_all_sessions", s.clearAllSessions)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listen)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
