package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateProject is returned when creating the starter project fails inside the signup transaction.
	ErrCreateProject = errors.New("user repository: create project failed")
	// ErrCreateProjectMember is returned when creating a membership fails inside the signup transaction.
	ErrCreateProjectMember = errors.New("user repository: create project member failed")

	// ErrInvitationNotFound is returned when no invitation matches the token,
	// including when a concurrent signup consumed it first.
	ErrInvitationNotFound = errors.New("user repository: invitation not found")
	// ErrInvitationExpired is returned when the invitation is past its expiry.
	ErrInvitationExpired = errors.New("user repository: invitation expired")
	// ErrInvitationEmailMismatch is returned when the signup email differs from the invited email.
	ErrInvitationEmailMismatch = errors.New("user repository: invitation email mismatch")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateWithStarterProject creates a user, a starter project, and the owner membership atomically.
func (r *GormUserRepository) CreateWithStarterProject(ctx context.Context, user *models.User, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateProject, err)
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    user.ID,
			Role:      models.RoleOwner,
			JoinedAt:  time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateProjectMember, err)
		}

		return nil
	})
}

// CreateFromInvitation redeems an invitation atomically. The invitation row
// is locked for the duration of the transaction where the database supports
// it, and its deletion must affect exactly one row, so two concurrent
// redemptions of the same token cannot both succeed.
func (r *GormUserRepository) CreateFromInvitation(ctx context.Context, user *models.User, token string, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("token = ?", token)
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&invitation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitationNotFound
			}
			return fmt.Errorf("failed to find invitation: %w", err)
		}

		if invitation.Expired(now) {
			return ErrInvitationExpired
		}
		if invitation.Email != user.Email {
			return ErrInvitationEmailMismatch
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		res := tx.Delete(&models.Invitation{}, invitation.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to consume invitation: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrInvitationNotFound
		}

		member := &models.ProjectMember{
			ProjectID: invitation.ProjectID,
			UserID:    user.ID,
			Role:      models.RoleMember,
			JoinedAt:  now,
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateProjectMember, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &invitation, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves profile changes
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}
