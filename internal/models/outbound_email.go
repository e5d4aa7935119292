package models

import "time"

type OutboundEmailStatus string

const (
	EmailStatusPending OutboundEmailStatus = "pending"
	EmailStatusSent    OutboundEmailStatus = "sent"
	EmailStatusFailed  OutboundEmailStatus = "failed"
)

// OutboundEmail is a queued message. Rows are written in the same
// transaction as the change that triggers them and delivered later.
type OutboundEmail struct {
	ID                uint64              `gorm:"primarykey" json:"id"`
	Recipient         string              `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject           string              `gorm:"type:varchar(255);not null" json:"subject"`
	HTML              string              `gorm:"type:text;not null" json:"-"`
	Status            OutboundEmailStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_outbound_emails_due,priority:1" json:"status"`
	Attempts          int                 `gorm:"not null;default:0" json:"attempts"`
	LastError         string              `gorm:"type:text" json:"last_error,omitempty"`
	ProviderMessageID string              `gorm:"type:varchar(255)" json:"provider_message_id,omitempty"`
	NextAttemptAt     time.Time           `gorm:"index:idx_outbound_emails_due,priority:2" json:"next_attempt_at"`
	SentAt            *time.Time          `json:"sent_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}
