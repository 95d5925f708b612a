package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/fare-predictor/internal/service/auth"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

// RequireToken rejects requests without a valid bearer token with 401.
// WebSocket clients that cannot set headers may pass ?access_token=.
// When authentication is disabled the handler is returned unchanged.
func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	if m.tokens == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := wrap.WithAction(r.Context(), "authenticate")

		token, err := tokenFromRequest(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := m.tokens.Validate(ctx, token)
		if err != nil {
			m.log.Warn(wrap.ErrorCtx(ctx, err), "failed to authenticate request", "error", err.Error())
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			msg := "invalid or missing authentication token"
			if errors.Is(err, auth.ErrExpToken) {
				msg = "authentication token has expired"
			}
			errorResponse(w, http.StatusUnauthorized, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(wrap.WithSubject(r.Context(), claims.Subject)))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return extractBearerToken(header)
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, nil
	}
	return "", errors.New("authorization required")
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
