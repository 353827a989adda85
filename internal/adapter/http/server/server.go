package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Temutjin2k/fair-fares/config"
	"github.com/Temutjin2k/fair-fares/internal/adapter/http/handler"
	"github.com/Temutjin2k/fair-fares/internal/adapter/http/middleware"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/fair-fares/pkg/wsHub"
)

const (
	serviceName       = "fare-service"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	limiterSweep      = time.Minute
)

// AuthService is what both the auth handlers and the auth middleware need.
type AuthService interface {
	handler.AuthService
	middleware.AuthService
}

// Deps are the services the API serves.
type Deps struct {
	Auth       AuthService
	Calculator handler.FareCalculator
	Records    handler.RecordService
	Hub        *ws.ConnectionHub
	Checks     map[string]handler.Checker
}

type API struct {
	mux     *http.ServeMux
	server  *http.Server
	routes  *handlers
	m       *middleware.Middleware
	limiter *middleware.RateLimiter

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health    *handler.Health
	auth      *handler.Auth
	fare      *handler.Fare
	dashboard *handler.Dashboard
}

func New(cfg config.Config, deps Deps, log logger.Logger) (*API, error) {
	switch {
	case deps.Auth == nil:
		return nil, errors.New("auth service is required")
	case deps.Calculator == nil || deps.Records == nil:
		return nil, errors.New("fare services are required")
	case deps.Hub == nil:
		return nil, errors.New("websocket hub is required")
	}

	api := &API{
		mux: http.NewServeMux(),
		routes: &handlers{
			health:    handler.NewHealth(serviceName, deps.Checks, log),
			auth:      handler.NewAuth(deps.Auth, log),
			fare:      handler.NewFare(deps.Calculator, deps.Records, log),
			dashboard: handler.NewDashboard(deps.Hub, serviceName, log),
		},
		m:       middleware.NewMiddleware(deps.Auth, log),
		limiter: middleware.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, log),
		addr:    net.JoinHostPort("0.0.0.0", cfg.Services.FareService),
		cfg:     cfg,
		log:     log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return api, nil
}

// Handler is the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(serviceName)(a.mux))))
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// Run serves in the background. Startup failures are sent to errCh.
func (a *API) Run(ctx context.Context, errCh chan<- error) {
	a.limiter.StartCleanup(ctx, limiterSweep)

	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()
}
