package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"coldemail/config"
	"coldemail/landing"

	"github.com/labstack/echo/v4"
)

// capturingSubmitter records the leads handed to it by views
type capturingSubmitter struct {
	mu    sync.Mutex
	leads []landing.FormData
	err   error
}

func (s *capturingSubmitter) Submit(ctx context.Context, data landing.FormData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, data)
	return s.err
}

func (s *capturingSubmitter) Leads() []landing.FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]landing.FormData(nil), s.leads...)
}

func setupRegistry(t *testing.T, comingSoon bool, delay time.Duration) (*landing.Registry, *capturingSubmitter) {
	t.Helper()
	sub := &capturingSubmitter{}
	registry := landing.NewRegistry(landing.Options{
		ComingSoon:        comingSoon,
		Submitter:         sub,
		ConfirmationDelay: delay,
	})
	t.Cleanup(registry.CloseAll)
	return registry, sub
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

// viewContext builds a context for a /views/:id route
func viewContext(registry *landing.Registry, method, id, action string, form url.Values, htmx bool) (echo.Context, *httptest.ResponseRecorder) {
	path := "/views/" + id
	if action != "" {
		path += "/" + action
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	_, c, rec := setupEcho(method, path, body)
	if htmx {
		c.Request().Header.Set("HX-Request", "true")
	}
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set(ViewsKey, registry)
	return c, rec
}

func leadForm(data landing.FormData) url.Values {
	form := url.Values{}
	for _, field := range landing.Fields {
		form.Set(field, data.Get(field))
	}
	return form
}
