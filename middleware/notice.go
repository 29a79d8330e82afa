package middleware

import (
	"coldemail/templates/partials"

	"github.com/labstack/echo/v4"
)

// NoticeTarget is the page element htmx error notices are swapped into
const NoticeTarget = "#notices"

// RenderNotice answers an htmx request with an inline error notice. The
// response retargets itself to NoticeTarget so the current panel stays put.
func RenderNotice(c echo.Context, status int, message string) error {
	h := c.Response().Header()
	h.Set("HX-Retarget", NoticeTarget)
	h.Set("HX-Reswap", "innerHTML")
	h.Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return partials.ErrorNotice(message).Render(c.Request().Context(), c.Response().Writer)
}
