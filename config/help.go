package config

import (
	"flag"
	"fmt"
	"strings"
)

const HelpMessage = `
Fare Predictor

Usage:
  fare -mode <fare-api|fare-recorder> [-config-path config.yaml]
  fare -help

Modes:
  fare-api        derives trip features, scores them and serves quotes over HTTP and WebSocket
  fare-recorder   consumes fare.predicted events and serves the prediction history

Configuration is read from the YAML file and environment variables; the
environment wins. Nested YAML keys map to upper-snake names, e.g.
model.path -> MODEL_PATH.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig prints the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	var b strings.Builder

	line := func(key string, value any) {
		fmt.Fprintf(&b, "  %-28s %v\n", key, value)
	}

	fmt.Fprintf(&b, "Configuration (%s)\n", cfg.Mode)
	line("log.level", cfg.Log.Level)
	line("server.addr", cfg.Server.Addr(cfg.Mode))
	line("model.source", cfg.Model.Source)
	line("model.path", cfg.Model.Path)
	line("model.remote_url", cfg.Model.RemoteURL)
	line("model.timeout", cfg.Model.Timeout)
	line("database.host", cfg.Database.Host+":"+cfg.Database.Port)
	line("database.database", cfg.Database.Database)
	line("database.password", mask(cfg.Database.Password))
	line("rabbitmq.enabled", cfg.RabbitMQ.Enabled)
	line("rabbitmq.host", cfg.RabbitMQ.Host+":"+cfg.RabbitMQ.Port)
	line("redis.enabled", cfg.Redis.Enabled)
	line("redis.addr", cfg.Redis.GetAddr())
	line("redis.ttl", cfg.Redis.TTL)
	line("auth.enabled", cfg.Auth.Enabled)
	line("auth.jwt_secret", mask(cfg.Auth.JWTSecret))
	line("locationiq.api_key", mask(cfg.ExternalAPI.LocationIQapiKey))
	line("new_relic.enabled", cfg.NewRelic.Enabled)
	line("cors.allowed_origins", strings.Join(cfg.CORS.AllowedOrigins, ","))

	fmt.Print(b.String())
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "********"
}
