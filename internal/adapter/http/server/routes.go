package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/nrapp"

	_ "github.com/Temutjin2k/fare-predictor/docs"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)

	a.setupSwaggerRoutes()
	a.setupMetricsRoute()

	switch a.mode {
	case types.FareAPI:
		a.setupFareRoutes()
	case types.FareRecorder:
		a.setupHistoryRoutes()
	}
}

// setupFareRoutes setups routes for the fare api
func (a *API) setupFareRoutes() {
	a.handle("POST /fares/predict", a.m.RequireToken(http.HandlerFunc(a.routes.fare.Predict))) // Predict a fare for one trip
	a.handle("GET /fares/schema", http.HandlerFunc(a.routes.fare.Schema))                      // Model feature schema
	a.mux.Handle("GET /ws/fares", a.m.RequireToken(a.routes.fareWS))                           // WebSocket quote session
}

// setupHistoryRoutes setups routes for the recorder
func (a *API) setupHistoryRoutes() {
	a.handle("GET /predictions", a.m.RequireToken(http.HandlerFunc(a.routes.history.List)))        // Paginated history
	a.handle("GET /predictions/stats", a.m.RequireToken(http.HandlerFunc(a.routes.history.Stats))) // Daily aggregates
	a.handle("GET /predictions/{id}", a.m.RequireToken(http.HandlerFunc(a.routes.history.Get)))    // Single prediction
}

// handle registers h and reports it as a New Relic transaction when the agent is on.
func (a *API) handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, nrapp.WrapHandle(a.nrApp, pattern, h))
}

// setupSwaggerRoutes configures Swagger UI endpoints based on service mode
func (a *API) setupSwaggerRoutes() {
	var instanceName string

	switch a.mode {
	case types.FareAPI:
		instanceName = "fare"
	case types.FareRecorder:
		instanceName = "recorder"
	default:
		a.log.Warn(wrap.WithAction(context.Background(), "setup swagger routes"), "unknown service mode for swagger setup", "mode", a.mode)
		return
	}

	// Swagger UI endpoint
	a.mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(instanceName)))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func (a *API) setupMetricsRoute() {
	a.mux.Handle("GET /metrics", promhttp.Handler())
}
