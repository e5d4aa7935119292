package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo                repository.UserRepository
	bootstrapStarterProject bool
	now                     func() time.Time
}

// NewAuthService creates a new AuthService. When bootstrapStarterProject is
// set, users who sign up without an invitation get a starter project.
func NewAuthService(userRepo repository.UserRepository, bootstrapStarterProject bool) *AuthService {
	return &AuthService{
		userRepo:                userRepo,
		bootstrapStarterProject: bootstrapStarterProject,
		now:                     time.Now,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email           string
	Password        string
	Name            string
	InvitationToken string
}

// SignupResult describes what a signup created besides the user.
type SignupResult struct {
	User            *models.User
	DefaultProject  *models.Project
	JoinedProjectID *uint64
}

// StarterProject builds the project given to users who sign up on their own.
func StarterProject() *models.Project {
	return &models.Project{
		Name:        constants.StarterProjectName,
		Description: constants.StarterProjectDescription,
		Status:      models.ProjectStatusActive,
	}
}

// Signup creates a new user. With an invitation token the user joins the
// invited project; otherwise a starter project is bootstrapped.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		Timezone:     constants.DefaultTimezone,
		Notifications: datatypes.NewJSONType(models.NotificationPreferences{
			Email: true,
			Push:  false,
		}),
	}

	result := &SignupResult{User: user}

	switch token := strings.TrimSpace(input.InvitationToken); {
	case token != "":
		invitation, err := s.userRepo.CreateFromInvitation(ctx, user, token, s.now())
		if err != nil {
			return nil, mapSignupError(err)
		}
		result.JoinedProjectID = &invitation.ProjectID

	case s.bootstrapStarterProject:
		project := StarterProject()
		if err := s.userRepo.CreateWithStarterProject(ctx, user, project); err != nil {
			return nil, mapSignupError(err)
		}
		result.DefaultProject = project

	default:
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, mapSignupError(err)
		}
	}

	return result, nil
}

func mapSignupError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvitationNotFound):
		return ErrInvitationNotFound
	case errors.Is(err, repository.ErrInvitationExpired):
		return ErrInvitationExpired
	case errors.Is(err, repository.ErrInvitationEmailMismatch):
		return ErrEmailMismatch
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrCreateUser):
		return fmt.Errorf("failed to create user: %w", err)
	case errors.Is(err, repository.ErrCreateProject):
		return fmt.Errorf("failed to create starter project: %w", err)
	case errors.Is(err, repository.ErrCreateProjectMember):
		return fmt.Errorf("failed to add project member: %w", err)
	default:
		return fmt.Errorf("failed to complete signup: %w", err)
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
