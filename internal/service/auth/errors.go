package auth

import "errors"

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpToken          = errors.New("expired token")
	ErrTokenGenerateFail = errors.New("failed to generate token")
	ErrMissingSubject    = errors.New("token subject is required")
	ErrMissingSecret     = errors.New("token secret is required")
)
