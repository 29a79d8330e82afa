package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"coldemail/config"
	"coldemail/landing"
	"coldemail/models"

	"gorm.io/gorm"
)

// ErrWebhookRejected is returned when the endpoint answers with a non-2xx status
var ErrWebhookRejected = errors.New("webhook rejected lead")

// WebhookClient posts leads to the collection endpoint
type WebhookClient struct {
	URL        string
	HTTPClient *http.Client
}

// NewWebhookClient creates a client with the given request timeout
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	return &WebhookClient{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Post sends the lead as JSON and returns the response status.
// The response body is drained and discarded.
func (w *WebhookClient) Post(ctx context.Context, data landing.FormData) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("failed to encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to post lead: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrWebhookRejected, resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// LeadRelay is the landing view's submitter: it posts the lead, records the
// attempt when a database is available and notifies the operator.
type LeadRelay struct {
	Webhook *WebhookClient
	// DB is optional; nil disables the delivery log
	DB     *gorm.DB
	Config *config.Config
}

// NewLeadRelay wires a relay from configuration
func NewLeadRelay(cfg *config.Config, database *gorm.DB) *LeadRelay {
	return &LeadRelay{
		Webhook: NewWebhookClient(cfg.WebhookURL, cfg.WebhookTimeout),
		DB:      database,
		Config:  cfg,
	}
}

// Submit implements landing.Submitter
func (r *LeadRelay) Submit(ctx context.Context, data landing.FormData) error {
	start := time.Now()
	status, err := r.Webhook.Post(ctx, data)
	elapsed := time.Since(start)

	outcome := models.DeliveryOutcomeDelivered
	switch {
	case errors.Is(err, ErrWebhookRejected):
		outcome = models.DeliveryOutcomeRejected
	case err != nil:
		outcome = models.DeliveryOutcomeFailed
	}
	WebhookDeliveries.WithLabelValues(outcome).Inc()
	WebhookDuration.Observe(elapsed.Seconds())

	if r.DB != nil {
		delivery := models.WebhookDelivery{
			ViewID:        landing.ViewIDFromContext(ctx),
			CompanyName:   data.CompanyName,
			CompanyDomain: data.CompanyDomain,
			Email:         data.Email,
			Message:       data.Message,
			Outcome:       outcome,
			StatusCode:    status,
			DurationMs:    elapsed.Milliseconds(),
		}
		if err != nil {
			delivery.Error = err.Error()
		}
		if dbErr := r.DB.Create(&delivery).Error; dbErr != nil {
			log.Printf("[WARNING] Failed to record webhook delivery: %v", dbErr)
		}
	}

	if r.Config != nil && r.Config.LeadNotifyTo != "" {
		email := BuildLeadNotificationEmail(r.Config.LeadNotifyTo, data, outcome)
		if mailErr := SendEmail(r.Config, email); mailErr != nil {
			LeadNotifications.WithLabelValues("error").Inc()
			log.Printf("[WARNING] Failed to send lead notification: %v", mailErr)
		} else {
			LeadNotifications.WithLabelValues("sent").Inc()
		}
	}

	return err
}
