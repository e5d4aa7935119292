package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	authz       policy.Authorizer
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, authz policy.Authorizer) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		authz:       authz,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	OwnerID     uint64
}

// CreateProject creates a new project owned by the caller.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.Status == "" {
		input.Status = models.ProjectStatusActive
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
	}
	if err := s.projectRepo.Create(ctx, project, input.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the projects the user belongs to with their members.
func (s *ProjectService) ListProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project. Projects the actor cannot see are reported
// as not found so their existence is not leaked.
func (s *ProjectService) GetProject(ctx context.Context, projectID, actorID uint64) (*models.Project, models.ProjectRole, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	role, err := s.authz.Role(ctx, actorID, projectID)
	if err != nil {
		if errors.Is(err, policy.ErrNotMember) {
			return nil, "", ErrProjectNotFound
		}
		return nil, "", err
	}

	return project, role, nil
}

// UpdateProjectInput holds optional project changes.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject updates a project's details.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actorID, projectID, policy.ActionUpdateProject); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject deletes a project with its tasks, members and invitations.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, actorID uint64) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actorID, projectID, policy.ActionDeleteProject); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMemberInput represents a direct membership grant by an owner.
type AddMemberInput struct {
	ProjectID uint64
	ActorID   uint64
	UserID    uint64
	Role      models.ProjectRole
}

// AddMember adds an existing user to a project.
func (s *ProjectService) AddMember(ctx context.Context, input AddMemberInput) (*models.ProjectMember, error) {
	if _, err := s.findProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, input.ActorID, input.ProjectID, policy.ActionManageMembers); err != nil {
		return nil, err
	}

	if input.Role == "" {
		input.Role = models.RoleMember
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(ctx, input.ProjectID, input.UserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Role:      input.Role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(ctx, member, nil); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember removes a user from a project.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, actorID, userID uint64) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actorID, projectID, policy.ActionManageMembers); err != nil {
		return err
	}
	if actorID == userID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.projectRepo.FindMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
