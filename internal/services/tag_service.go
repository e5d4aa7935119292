package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// TagService manages the shared tag catalogue.
type TagService struct {
	tagRepo     repository.TagRepository
	projectRepo repository.ProjectRepository
}

func NewTagService(tagRepo repository.TagRepository, projectRepo repository.ProjectRepository) *TagService {
	return &TagService{tagRepo: tagRepo, projectRepo: projectRepo}
}

type CreateTagInput struct {
	Name  string
	Color string
}

type UpdateTagInput struct {
	Name  *string
	Color *string
}

func (s *TagService) CreateTag(ctx context.Context, input CreateTagInput) (*models.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	color := input.Color
	if color == "" {
		color = constants.DefaultTagColor
	}

	tag := &models.Tag{Name: name, Color: color}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTag returns a tag and the tasks carrying it that the actor can see.
func (s *TagService) GetTag(ctx context.Context, tagID, actorID uint64) (*models.Tag, []models.Task, error) {
	tag, err := s.findTag(ctx, tagID)
	if err != nil {
		return nil, nil, err
	}

	projectIDs, err := s.projectRepo.ListProjectIDsForUser(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch project memberships: %w", err)
	}
	tasks, err := s.tagRepo.ListTasks(ctx, tagID, projectIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tagged tasks: %w", err)
	}

	return tag, tasks, nil
}

func (s *TagService) UpdateTag(ctx context.Context, tagID uint64, input UpdateTagInput) (*models.Tag, error) {
	tag, err := s.findTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		tag.Name = name
	}
	if input.Color != nil && *input.Color != "" {
		tag.Color = *input.Color
	}

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, tagID uint64) error {
	if _, err := s.findTag(ctx, tagID); err != nil {
		return err
	}
	if err := s.tagRepo.Delete(ctx, tagID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

func (s *TagService) findTag(ctx context.Context, tagID uint64) (*models.Tag, error) {
	tag, err := s.tagRepo.FindByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return tag, nil
}
