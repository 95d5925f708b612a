package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/handler"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/fare-predictor/internal/adapter/http/ws"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/fare-predictor/pkg/wsHub"
)

// Deps are the services the HTTP layer exposes. Only the ones the mode needs are required.
type Deps struct {
	Fare         handler.FareService
	History      handler.HistoryService
	SortSafelist []string

	// Tokens enables bearer authentication on protected routes when not nil.
	Tokens   middleware.TokenValidator
	Hub      *ws.ConnectionHub
	Probes   []handler.Probe
	NewRelic *newrelic.Application
}

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware
	nrApp  *newrelic.Application

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	fare    *handler.Fare
	fareWS  *wshandler.FareWsHandler
	history *handler.History
}

func New(cfg config.Config, deps Deps, logger logger.Logger) (*API, error) {
	routes := &handlers{
		health: handler.NewHealth(cfg.Mode.String(), logger, deps.Probes...),
	}

	switch cfg.Mode {
	case types.FareAPI:
		if deps.Fare == nil {
			return nil, errors.New("fare service is required")
		}
		if deps.Hub == nil {
			return nil, errors.New("websocket hub is required")
		}
		routes.fare = handler.NewFare(deps.Fare, logger)
		routes.fareWS = wshandler.NewFareWsHandler(deps.Hub, deps.Fare, cfg.CORS.AllowedOrigins, logger)
	case types.FareRecorder:
		if deps.History == nil {
			return nil, errors.New("history service is required")
		}
		routes.history = handler.NewHistory(deps.History, deps.SortSafelist, logger)
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(deps.Tokens, logger),
		nrApp:  deps.NewRelic,
		addr:   cfg.Server.Addr(cfg.Mode),
		cfg:    cfg,
		log:    logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.withMiddleware(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return api, nil
}

// Handler returns the fully wrapped handler. Used by tests.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	patternOf := func(r *http.Request) string {
		_, pattern := a.mux.Handler(r)
		return pattern
	}

	var h http.Handler = a.mux
	h = a.m.CORS(a.cfg.CORS.AllowedOrigins)(h)
	h = a.m.Metrics(a.mode.String(), patternOf)(h)
	h = a.m.Logging(h)
	h = a.m.RequestID(h)
	return a.m.Recover(h)
}
