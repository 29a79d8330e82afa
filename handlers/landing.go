package handlers

import (
	"errors"
	"net/http"

	"coldemail/config"
	"coldemail/landing"
	"coldemail/middleware"
	"coldemail/services"
	"coldemail/templates/pages"
	"coldemail/templates/partials"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

const pageTitle = "ColdEmail.com"

// ViewsKey is the Echo context key holding the *landing.Registry
const ViewsKey = "views"

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

func getRegistry(c echo.Context) *landing.Registry {
	return c.Get(ViewsKey).(*landing.Registry)
}

func panelProps(c echo.Context) partials.PanelProps {
	return partials.PanelProps{
		CSRFToken:        middleware.GetCSRFToken(c),
		TurnstileSiteKey: getConfig(c).TurnstileSiteKey,
	}
}

// render writes a component with the given status
func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// renderPanel sends just the panel to htmx and the full page to everyone else
func renderPanel(c echo.Context, status int, viewID string, panel templ.Component) error {
	if middleware.IsHTMX(c) {
		return render(c, status, panel)
	}

	cfg := getConfig(c)
	page := pages.Landing(pages.PageProps{
		Title:            pageTitle,
		ViewID:           viewID,
		CSRFToken:        middleware.GetCSRFToken(c),
		TurnstileSiteKey: cfg.TurnstileSiteKey,
	}, panel)
	return render(c, status, page)
}

func renderView(c echo.Context, view *landing.View, props partials.PanelProps) error {
	return renderPanel(c, http.StatusOK, view.ID(), partials.Panel(view.Snapshot(), props))
}

func renderExpired(c echo.Context) error {
	return renderPanel(c, http.StatusNotFound, "", partials.Expired())
}

// lookupView resolves :id; a nil view means the expired panel has been rendered
func lookupView(c echo.Context) (*landing.View, error) {
	view, ok := getRegistry(c).Get(c.Param("id"))
	if !ok {
		return nil, renderExpired(c)
	}
	return view, nil
}

// handleViewError maps state machine errors to responses. Out-of-state calls
// are harmless double clicks and just re-render the current panel.
func handleViewError(c echo.Context, view *landing.View, err error, props partials.PanelProps) error {
	var verr *landing.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, landing.ErrClosed):
		return renderExpired(c)
	case errors.As(err, &verr):
		c.Logger().Debugf("View %s: %v", view.ID(), err)
	case errors.Is(err, landing.ErrComingSoon), errors.Is(err, landing.ErrNotInForm):
		c.Logger().Debugf("View %s: ignored: %v", view.ID(), err)
	default:
		c.Logger().Errorf("View %s: %v", view.ID(), err)
		return renderError(c, http.StatusInternalServerError, "Something went wrong")
	}
	return renderView(c, view, props)
}

// LandingHandler creates a view for this page load and renders the hero panel
func LandingHandler(c echo.Context) error {
	view := getRegistry(c).Create()
	return renderPanel(c, http.StatusOK, view.ID(), partials.Panel(view.Snapshot(), panelProps(c)))
}

// GetViewHandler renders the view's current panel
func GetViewHandler(c echo.Context) error {
	view, err := lookupView(c)
	if view == nil {
		return err
	}
	return renderView(c, view, panelProps(c))
}

// OpenFormHandler handles the call to action
func OpenFormHandler(c echo.Context) error {
	view, err := lookupView(c)
	if view == nil {
		return err
	}
	return handleViewError(c, view, view.OpenForm(), panelProps(c))
}

// CloseFormHandler dismisses the form
func CloseFormHandler(c echo.Context) error {
	view, err := lookupView(c)
	if view == nil {
		return err
	}
	return handleViewError(c, view, view.CloseForm(), panelProps(c))
}

// SubmitFormHandler stores the posted fields and submits the form
func SubmitFormHandler(c echo.Context) error {
	view, err := lookupView(c)
	if view == nil {
		return err
	}
	props := panelProps(c)

	for _, field := range landing.Fields {
		if err := view.SetField(field, c.FormValue(field)); err != nil {
			// Submitting twice lands here once the view has left the form
			return handleViewError(c, view, err, props)
		}
	}

	// Validate Turnstile CAPTCHA (if configured)
	cfg := getConfig(c)
	if cfg.TurnstileSecretKey != "" {
		token := c.FormValue("cf-turnstile-response")
		if token == "" {
			props.Notice = "Please complete the CAPTCHA"
			return renderView(c, view, props)
		}
		ok, err := services.VerifyTurnstileToken(c.Request().Context(), token, cfg.TurnstileSecretKey, c.RealIP())
		if err != nil || !ok {
			if errors.Is(err, services.ErrTurnstileRejected) {
				c.Logger().Warnf("Turnstile verification failed: %v", err)
			} else {
				c.Logger().Errorf("Turnstile verification error: %v", err)
			}
			props.Notice = "CAPTCHA verification failed"
			return renderView(c, view, props)
		}
	}

	return handleViewError(c, view, view.Submit(c.Request().Context()), props)
}

// UnmountViewHandler tears a view down when its page goes away
func UnmountViewHandler(c echo.Context) error {
	getRegistry(c).Remove(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// HealthHandler reports liveness
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"views":  getRegistry(c).Len(),
	})
}
