package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFContextKey is where Echo's CSRF middleware stores the token
	CSRFContextKey = "csrf"
	// CSRFFormField is the hidden input name used by panel forms and the unmount beacon
	CSRFFormField = "_csrf"
	// CSRFHeader is sent by htmx via hx-headers
	CSRFHeader = "X-CSRF-Token"
)

// CSRF protects the view routes. The token is read from the htmx header first,
// then from the form so plain form posts and sendBeacon work too.
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "header:" + CSRFHeader + ",form:" + CSRFFormField,
		ContextKey:     CSRFContextKey,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
	})
}

// GetCSRFToken returns the token for the current request, empty when CSRF is not mounted
func GetCSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
