package middleware

import (
	"context"

	"github.com/Temutjin2k/fare-predictor/internal/service/auth"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
)

type (
	TokenValidator interface {
		Validate(ctx context.Context, token string) (*auth.Claims, error)
	}

	Middleware struct {
		tokens TokenValidator // nil disables authentication
		log    logger.Logger
	}
)

func NewMiddleware(tokens TokenValidator, log logger.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		log:    log,
	}
}
