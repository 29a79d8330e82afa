package services

import (
	"errors"
	"testing"

	"coldemail/config"
	"coldemail/landing"
	"coldemail/models"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
)

func TestSendEmail(t *testing.T) {
	oldSender := emailSender
	defer func() { emailSender = oldSender }()

	email := &Email{To: []string{"ops@coldemail.com"}, Subject: "Test", TextBody: "body"}

	t.Run("Test mode logs only", func(t *testing.T) {
		emailSender = func(apiKey string, params *resend.SendEmailRequest) (string, error) {
			t.Fatal("sender must not be called in test mode")
			return "", nil
		}
		assert.NoError(t, SendEmail(&config.Config{EmailTestMode: true}, email))
	})

	t.Run("Missing API key", func(t *testing.T) {
		err := SendEmail(&config.Config{}, email)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "RESEND_API_KEY")
	})

	t.Run("Empty body", func(t *testing.T) {
		err := SendEmail(&config.Config{ResendAPIKey: "key"}, &Email{To: []string{"x@y.com"}})
		assert.Error(t, err)
	})

	t.Run("Sends via Resend", func(t *testing.T) {
		var got *resend.SendEmailRequest
		emailSender = func(apiKey string, params *resend.SendEmailRequest) (string, error) {
			assert.Equal(t, "key", apiKey)
			got = params
			return "msg_1", nil
		}
		cfg := &config.Config{ResendAPIKey: "key", EmailFrom: "noreply@coldemail.com", EmailFromName: "ColdEmail.com"}

		assert.NoError(t, SendEmail(cfg, email))
		assert.Equal(t, "ColdEmail.com <noreply@coldemail.com>", got.From)
		assert.Equal(t, []string{"ops@coldemail.com"}, got.To)
		assert.Equal(t, "body", got.Text)
	})

	t.Run("Resend failure", func(t *testing.T) {
		emailSender = func(apiKey string, params *resend.SendEmailRequest) (string, error) {
			return "", errors.New("quota exceeded")
		}
		err := SendEmail(&config.Config{ResendAPIKey: "key"}, email)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

func TestBuildLeadNotificationEmail(t *testing.T) {
	lead := landing.FormData{
		CompanyName:   "Acme <b>Corp</b>",
		CompanyDomain: "acme.com",
		Email:         "a@b.com",
		Message:       `hello <script>alert("x")</script>`,
	}

	email := BuildLeadNotificationEmail("ops@coldemail.com", lead, models.DeliveryOutcomeDelivered)

	assert.Equal(t, []string{"ops@coldemail.com"}, email.To)
	assert.Contains(t, email.Subject, "Acme")
	assert.NotContains(t, email.HTMLBody, "<script>")
	assert.NotContains(t, email.HTMLBody, "<b>Corp</b>")
	assert.Contains(t, email.HTMLBody, "Acme Corp")
	assert.Contains(t, email.HTMLBody, "acme.com")
	assert.Contains(t, email.HTMLBody, models.DeliveryOutcomeDelivered)
	assert.Contains(t, email.TextBody, "Email: a@b.com")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
