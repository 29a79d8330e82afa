package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"coldemail/config"
	"coldemail/landing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// emailSender is swapped in tests
var emailSender = func(apiKey string, params *resend.SendEmailRequest) (string, error) {
	client := resend.NewClient(apiKey)
	sent, err := client.Emails.Send(params)
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (development mode - not actually sent)")
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	// Validate we have at least one body
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	id, err := emailSender(cfg.ResendAPIKey, params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// Visitor text goes into the operator's mailbox; strip any markup first.
var leadTextPolicy = bluemonday.StrictPolicy()

var leadNotificationHTML = template.Must(template.New("lead").Parse(`<html><body>
<h2>New lead from ColdEmail.com</h2>
<table>
<tr><td><strong>Company</strong></td><td>{{.CompanyName}}</td></tr>
<tr><td><strong>Domain</strong></td><td>{{.CompanyDomain}}</td></tr>
<tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
<tr><td><strong>Webhook</strong></td><td>{{.Outcome}}</td></tr>
</table>
<p style="white-space: pre-wrap">{{.Message}}</p>
</body></html>`))

type leadNotificationData struct {
	CompanyName   template.HTML
	CompanyDomain template.HTML
	Email         template.HTML
	Message       template.HTML
	Outcome       string
}

// BuildLeadNotificationEmail creates the operator notification for a new lead
func BuildLeadNotificationEmail(to string, data landing.FormData, outcome string) *Email {
	htmlData := leadNotificationData{
		CompanyName:   template.HTML(leadTextPolicy.Sanitize(data.CompanyName)),
		CompanyDomain: template.HTML(leadTextPolicy.Sanitize(data.CompanyDomain)),
		Email:         template.HTML(leadTextPolicy.Sanitize(data.Email)),
		Message:       template.HTML(leadTextPolicy.Sanitize(data.Message)),
		Outcome:       outcome,
	}

	var buf bytes.Buffer
	if err := leadNotificationHTML.Execute(&buf, htmlData); err != nil {
		log.Printf("Error rendering lead notification: %v", err)
		buf.Reset()
	}

	text := fmt.Sprintf("New lead from ColdEmail.com\n\nCompany: %s\nDomain: %s\nEmail: %s\nWebhook: %s\n\n%s\n",
		data.CompanyName, data.CompanyDomain, data.Email, outcome, data.Message)

	return &Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("New lead: %s", strings.TrimSpace(data.CompanyName)),
		HTMLBody: buf.String(),
		TextBody: text,
	}
}
