package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coldemail/config"
	"coldemail/landing"
	"coldemail/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLead = landing.FormData{
	CompanyName:   "Acme",
	CompanyDomain: "acme.com",
	Email:         "a@b.com",
	Message:       "hi",
}

func TestWebhookClientPost(t *testing.T) {
	t.Run("Sends exact JSON body", func(t *testing.T) {
		var gotBody []byte
		var gotMethod, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.Write([]byte("ignored"))
		}))
		defer server.Close()

		client := NewWebhookClient(server.URL, time.Second)
		status, err := client.Post(context.Background(), testLead)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.JSONEq(t, `{"companyName":"Acme","companyDomain":"acme.com","email":"a@b.com","message":"hi"}`, string(gotBody))

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(gotBody, &decoded))
		assert.Len(t, decoded, 4)
	})

	t.Run("Non-2xx is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		status, err := NewWebhookClient(server.URL, time.Second).Post(context.Background(), testLead)
		assert.Equal(t, http.StatusBadGateway, status)
		assert.True(t, errors.Is(err, ErrWebhookRejected))
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		status, err := NewWebhookClient(url, time.Second).Post(context.Background(), testLead)
		assert.Equal(t, 0, status)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrWebhookRejected))
	})
}

func TestLeadRelaySubmit(t *testing.T) {
	t.Run("Records delivered lead", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		database := setupTestDB(t)
		relay := &LeadRelay{Webhook: NewWebhookClient(server.URL, time.Second), DB: database}

		assert.NoError(t, relay.Submit(context.Background(), testLead))

		var deliveries []models.WebhookDelivery
		require.NoError(t, database.Find(&deliveries).Error)
		require.Len(t, deliveries, 1)
		assert.NotEmpty(t, deliveries[0].ID)
		assert.Equal(t, "Acme", deliveries[0].CompanyName)
		assert.Equal(t, http.StatusCreated, deliveries[0].StatusCode)
		assert.True(t, deliveries[0].Succeeded())
		assert.Empty(t, deliveries[0].Error)
	})

	t.Run("Records failure and returns error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		database := setupTestDB(t)
		relay := &LeadRelay{Webhook: NewWebhookClient(server.URL, time.Second), DB: database}

		err := relay.Submit(context.Background(), testLead)
		assert.ErrorIs(t, err, ErrWebhookRejected)

		var delivery models.WebhookDelivery
		require.NoError(t, database.First(&delivery).Error)
		assert.Equal(t, models.DeliveryOutcomeRejected, delivery.Outcome)
		assert.Equal(t, http.StatusInternalServerError, delivery.StatusCode)
		assert.Contains(t, delivery.Error, "500")
	})

	t.Run("Works without a database", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		relay := &LeadRelay{Webhook: NewWebhookClient(server.URL, time.Second)}
		assert.NoError(t, relay.Submit(context.Background(), testLead))
	})

	t.Run("Notifies operator", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		cfg := &config.Config{LeadNotifyTo: "sales@coldemail.com", EmailTestMode: true}
		relay := NewLeadRelay(cfg, nil)
		relay.Webhook.URL = server.URL

		assert.NoError(t, relay.Submit(context.Background(), testLead))
	})
}

func TestLeadRelayAsViewSubmitter(t *testing.T) {
	received := make(chan landing.FormData, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data landing.FormData
		json.NewDecoder(r.Body).Decode(&data)
		received <- data
	}))
	defer server.Close()

	database := setupTestDB(t)
	relay := &LeadRelay{Webhook: NewWebhookClient(server.URL, time.Second), DB: database}
	view := landing.NewView("view-42", landing.Options{Submitter: relay})

	require.NoError(t, view.OpenForm())
	for _, field := range landing.Fields {
		require.NoError(t, view.SetField(field, testLead.Get(field)))
	}
	require.NoError(t, view.Submit(context.Background()))
	view.Wait()
	view.Close()

	assert.Equal(t, testLead, <-received)

	var delivery models.WebhookDelivery
	require.NoError(t, database.First(&delivery).Error)
	assert.Equal(t, "view-42", delivery.ViewID)
}
