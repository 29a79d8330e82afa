package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook delivery metrics
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldemail_webhook_deliveries_total",
		Help: "Lead webhook delivery attempts by outcome",
	}, []string{"outcome"})

	WebhookDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coldemail_webhook_duration_seconds",
		Help:    "Time spent posting a lead to the webhook",
		Buckets: prometheus.DefBuckets,
	})

	// Operator notification metrics
	LeadNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldemail_lead_notifications_total",
		Help: "Lead notification emails by result",
	}, []string{"result"})
)
