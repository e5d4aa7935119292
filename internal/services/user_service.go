package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserService manages the signed-in user's profile.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput holds optional profile changes. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name              *string
	Timezone          *string
	Notifications     *models.NotificationPreferences
	ProfilePictureURL *string
}

func (s *UserService) GetProfile(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil || *input.Timezone == "" {
			return nil, ErrInvalidTimezone
		}
		user.Timezone = *input.Timezone
	}
	if input.Notifications != nil {
		user.Notifications = datatypes.NewJSONType(*input.Notifications)
	}
	if input.ProfilePictureURL != nil {
		user.ProfilePictureURL = strings.TrimSpace(*input.ProfilePictureURL)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
