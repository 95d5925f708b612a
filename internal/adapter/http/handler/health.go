package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

// Probe reports the state of one dependency. A nil error means healthy.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type Health struct {
	serviceName string
	probes      []Probe
	log         logger.Logger
}

func NewHealth(serviceName string, log logger.Logger, probes ...Probe) *Health {
	return &Health{
		serviceName: serviceName,
		probes:      probes,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and its dependencies
// @Tags         Health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status, code := "available", http.StatusOK
	checks := make(map[string]string, len(a.probes))
	for _, p := range a.probes {
		if err := p.Check(ctx); err != nil {
			checks[p.Name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[p.Name] = "ok"
	}

	response := envelope{
		"status": status,
		"system_info": map[string]string{
			"service-name": a.serviceName,
		},
	}
	if len(checks) > 0 {
		response["checks"] = checks
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
