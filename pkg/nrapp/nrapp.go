package nrapp

import (
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type Config interface {
	IsEnabled() bool
	GetAppName() string
	GetLicenseKey() string
}

// New starts a New Relic application. It returns nil, nil when the agent is
// disabled or no license key is configured.
func New(cfg Config) (*newrelic.Application, error) {
	if !cfg.IsEnabled() || cfg.GetLicenseKey() == "" {
		return nil, nil
	}

	return newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.GetAppName()),
		newrelic.ConfigLicense(cfg.GetLicenseKey()),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
}

// WrapHandle instruments handler as a New Relic web transaction named after
// pattern. A nil app leaves the handler untouched.
func WrapHandle(app *newrelic.Application, pattern string, handler http.Handler) http.Handler {
	if app == nil {
		return handler
	}
	_, h := newrelic.WrapHandle(app, pattern, handler)
	return h
}
