package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const NonceKey contextKey = "csp_nonce"

// GenerateNonce creates a random nonce string
func GenerateNonce() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// CSPNonce middleware generates a nonce for each request, adds it to the
// context and sends the matching policy. Turnstile origins are only allowed
// when the widget is in use.
func CSPNonce(allowTurnstile bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			nonce, err := GenerateNonce()
			if err != nil {
				c.Logger().Errorf("Failed to generate nonce: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
			}

			// Add to Echo context (for handlers)
			c.Set(string(NonceKey), nonce)

			// Add to Request context (for templ components)
			ctx := context.WithValue(c.Request().Context(), NonceKey, nonce)
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set("Content-Security-Policy", contentSecurityPolicy(nonce, allowTurnstile))

			return next(c)
		}
	}
}

const (
	htmxOrigin      = "https://unpkg.com"
	turnstileOrigin = "https://challenges.cloudflare.com"
)

func contentSecurityPolicy(nonce string, allowTurnstile bool) string {
	scripts := []string{"'self'", fmt.Sprintf("'nonce-%s'", nonce), htmxOrigin}
	connect := []string{"'self'"}
	frames := []string{"'none'"}
	if allowTurnstile {
		scripts = append(scripts, turnstileOrigin)
		connect = append(connect, turnstileOrigin)
		frames = []string{turnstileOrigin}
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(scripts, " "),
		"style-src 'self'",
		"img-src 'self' data:",
		"connect-src " + strings.Join(connect, " "),
		"frame-src " + strings.Join(frames, " "),
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}

// GetNonce retrieves the nonce from the context
func GetNonce(ctx context.Context) string {
	if val, ok := ctx.Value(NonceKey).(string); ok {
		return val
	}
	return ""
}
