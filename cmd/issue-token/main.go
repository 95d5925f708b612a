// Command issue-token prints a signed bearer token for the fare API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/service/auth"
	"github.com/Temutjin2k/fare-predictor/pkg/configparser"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	subject    = flag.String("subject", "", "token subject, e.g. the client name")
	ttl        = flag.Duration("ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")
)

func main() {
	flag.Parse()

	var cfg struct {
		Auth config.AuthConfig
	}
	if err := configparser.LoadAndParseYaml(*configPath, &cfg); err != nil {
		fail(err)
	}
	if *ttl > 0 {
		cfg.Auth.TokenTTL = *ttl
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		fail(err)
	}

	token, expiresAt, err := tokens.Issue(context.Background(), *subject)
	if err != nil {
		fail(err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
	os.Exit(1)
}
