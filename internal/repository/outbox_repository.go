package repository

import (
	"context"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormOutboxRepository is a GORM implementation of OutboxRepository
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Enqueue(ctx context.Context, email *models.OutboundEmail) error {
	return r.db.WithContext(ctx).Create(email).Error
}

func (r *GormOutboxRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.OutboundEmail, error) {
	var emails []models.OutboundEmail
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.EmailStatusPending, now).
		Order("id ASC").
		Limit(limit).
		Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, id uint64, providerMessageID string, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OutboundEmail{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              models.EmailStatusSent,
			"provider_message_id": providerMessageID,
			"sent_at":             sentAt,
			"attempts":            gorm.Expr("attempts + 1"),
			"last_error":          "",
		}).Error
}

func (r *GormOutboxRepository) MarkAttemptFailed(ctx context.Context, id uint64, attempts int, lastErr string, nextAttempt time.Time, retry bool) error {
	status := models.EmailStatusFailed
	if retry {
		status = models.EmailStatusPending
	}
	return r.db.WithContext(ctx).
		Model(&models.OutboundEmail{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"attempts":        attempts,
			"last_error":      lastErr,
			"next_attempt_at": nextAttempt,
		}).Error
}
