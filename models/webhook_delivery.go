package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery outcomes
const (
	DeliveryOutcomeDelivered = "delivered"
	DeliveryOutcomeRejected  = "rejected" // Endpoint answered with a non-2xx status
	DeliveryOutcomeFailed    = "failed"   // Transport error, no response
)

// WebhookDelivery records one outbound lead submission attempt.
// It is an operator-side log and never feeds back into what the visitor sees.
type WebhookDelivery struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_delivery_created_at" json:"created_at"`

	ViewID string `gorm:"type:varchar(36);index" json:"view_id,omitempty"`

	// Lead
	CompanyName   string `gorm:"not null" json:"company_name"`
	CompanyDomain string `gorm:"not null" json:"company_domain"`
	Email         string `gorm:"not null" json:"email"`
	Message       string `gorm:"type:text;not null" json:"message"`

	// Result
	Outcome    string `gorm:"type:varchar(16);not null;index" json:"outcome"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `gorm:"type:text" json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// TableName specifies the table name for WebhookDelivery model
func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}

// BeforeCreate generates UUID
func (d *WebhookDelivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// Succeeded reports whether the endpoint accepted the lead
func (d *WebhookDelivery) Succeeded() bool {
	return d.Outcome == DeliveryOutcomeDelivered
}
