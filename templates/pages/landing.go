package pages

const (
	htmxScriptURL      = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	turnstileScriptURL = "https://challenges.cloudflare.com/turnstile/v0/api.js"
	footerText         = "© 2026 ColdEmail.com All rights reserved."
)

// htmxConfig turns off the inline <style> htmx would otherwise inject, which the CSP blocks
const htmxConfig = `{"includeIndicatorStyles":false}`

// PageProps holds the page-level values of the landing page
type PageProps struct {
	Title            string
	ViewID           string
	CSRFToken        string
	TurnstileSiteKey string
}
