package repository

import (
	"context"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create stores an invitation and its notice atomically. If queueing the
// email fails the invitation is not persisted.
func (r *GormInvitationRepository) Create(ctx context.Context, invitation *models.Invitation, notice *models.OutboundEmail) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(invitation).Error; err != nil {
			return err
		}
		if notice != nil {
			return tx.Create(notice).Error
		}
		return nil
	})
}

// FindByToken finds an invitation by token
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListByProject lists invitations issued for a project, newest first
func (r *GormInvitationRepository) ListByProject(ctx context.Context, projectID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}
