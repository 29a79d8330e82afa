package partials

import (
	"fmt"
	"time"

	"coldemail/landing"
)

const (
	ctaLabel           = "Submit Interest"
	comingSoonLabel    = "Coming Soon"
	confirmationNotice = "We have received your message. Serious buyers will be contacted directly."
)

// confirmationPollSlack keeps the browser's poll just behind the server timer
const confirmationPollSlack = 250 * time.Millisecond

var fieldLabels = map[string]string{
	landing.FieldCompanyName:   "Company Name",
	landing.FieldCompanyDomain: "Company Domain",
	landing.FieldEmail:         "Email",
	landing.FieldMessage:       "Message",
}

// PanelProps carries request-scoped values the panels need
type PanelProps struct {
	CSRFToken        string
	TurnstileSiteKey string
	// Notice is an optional message shown above the form, e.g. a failed CAPTCHA
	Notice string
}

func viewPath(snap landing.Snapshot, action string) string {
	if action == "" {
		return "/views/" + snap.ID
	}
	return "/views/" + snap.ID + "/" + action
}

func pollTrigger(snap landing.Snapshot) string {
	return fmt.Sprintf("load delay:%dms", (snap.ResetIn + confirmationPollSlack).Milliseconds())
}

func inputType(field string) string {
	if field == landing.FieldEmail {
		return "email"
	}
	return "text"
}
