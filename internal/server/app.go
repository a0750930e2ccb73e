// Package server initializes and runs the gophauth server: it opens and
// migrates storage, wires the services and runs the HTTP and gRPC adapters
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/oidc"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	sessionService *services.SessionService
}

// NewApp opens the configured database, applies migrations and wires the
// services. Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {

	logger := logging.NewJSON(w, c.LogLevel)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := password.New(c.PasswordScheme, c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	verifier := oidc.NewVerifier(oidc.Config{
		Domain:   c.OIDCDomain,
		Audience: c.OIDCAudience,
		Scheme:   c.OIDCIssuerScheme,
		Timeout:  c.OIDCTimeout,
	}, logger)
	if !verifier.Enabled() {
		logger.Warn(ctx, "identity provider not configured, federated login disabled")
	}

	resolver := services.NewIdentityResolver(db, rm, verifier, c.OIDCLinkSubject, logger)
	us := services.NewUserService(db, rm, hasher, verifier, resolver, logger)
	ss := services.NewSessionService(db, rm, logger)

	return &App{config: c, logger: logger, db: db, userService: us, sessionService: ss}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves both adapters until ctx is cancelled, a signal arrives or one
// of them fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.sessionService,
		app.db, app.config.AdminToken, app.config.ShutdownTimeout)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.sessionService,
		app.config.AdminToken)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(gctx)
	})
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "close db", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
