package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// UserDTO represents the signed-in user in API responses
type UserDTO struct {
	ID                uint64                         `json:"id"`
	Email             string                         `json:"email"`
	Name              string                         `json:"name"`
	Timezone          string                         `json:"timezone"`
	Notifications     models.NotificationPreferences `json:"notifications"`
	ProfilePictureURL string                         `json:"profile_picture_url"`
	CreatedAt         time.Time                      `json:"created_at"`
}

// UserSummaryDTO is the public view of a user nested in other resources
type UserSummaryDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		Timezone:          user.Timezone,
		Notifications:     user.Notifications.Data(),
		ProfilePictureURL: user.ProfilePictureURL,
		CreatedAt:         user.CreatedAt,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// SignupResponse is returned by the signup endpoint
type SignupResponse struct {
	User            UserDTO     `json:"user"`
	DefaultProject  *ProjectDTO `json:"default_project,omitempty"`
	JoinedProjectID *uint64     `json:"joined_project_id,omitempty"`
}
