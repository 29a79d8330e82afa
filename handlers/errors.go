package handlers

import (
	"errors"
	"net/http"

	"coldemail/middleware"

	"github.com/labstack/echo/v4"
)

// renderError shows htmx an inline notice and hands everything else to Echo's error handler
func renderError(c echo.Context, status int, message string) error {
	if middleware.IsHTMX(c) {
		return middleware.RenderNotice(c, status, message)
	}
	return echo.NewHTTPError(status, message)
}

// HTTPErrorHandler renders errors that escape handlers and middleware, such as
// CSRF failures, as notices for htmx. Other requests get Echo's default response.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed || !middleware.IsHTMX(c) {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
			message = m
		}
	}
	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if err := middleware.RenderNotice(c, status, message); err != nil {
		c.Logger().Errorf("Failed to render error notice: %v", err)
	}
}
