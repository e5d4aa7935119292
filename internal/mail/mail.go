// Package mail renders and delivers transactional email.
package mail

import (
	"context"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/config"
)

// Message is a single HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NewSender builds the Sender selected by cfg.Provider.
func NewSender(ctx context.Context, cfg config.MailConfig) (Sender, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendSender(cfg.ResendURL, cfg.ResendAPIKey)
	case "ses":
		return NewSESSender(ctx, cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey)
	case "smtp":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword), nil
	case "log", "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.Provider)
	}
}
