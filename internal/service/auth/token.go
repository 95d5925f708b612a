package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

// Claims carried by API tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenID returns the jti claim as a uuid.
func (c *Claims) TokenID() uuid.UUID {
	id, _ := uuid.Parse(c.ID)
	return id
}

// TokenService mints and checks HS256 bearer tokens for the fare API.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subject that expires after the service TTL.
func (s *TokenService) Issue(ctx context.Context, subject string) (string, time.Time, error) {
	ctx = wrap.WithSubject(wrap.WithAction(ctx, "issue_token"), subject)
	if subject == "" {
		return "", time.Time{}, wrap.Error(ctx, ErrMissingSubject)
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrTokenGenerateFail, err))
	}
	return token, expiresAt, nil
}

// Validate parses the token and checks signature, issuer and expiry.
func (s *TokenService) Validate(ctx context.Context, token string) (*Claims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	return &claims, nil
}
