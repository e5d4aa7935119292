package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var taskPreloads = []string{"Assignee", "Creator", "Project", "Tags"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	tagRepo     repository.TagRepository
	authz       policy.Authorizer
	suggester   TaskSuggester
}

// NewTaskService creates a new TaskService. suggester may be nil when AI
// generation is not configured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	tagRepo repository.TagRepository,
	authz policy.Authorizer,
	suggester TaskSuggester,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		tagRepo:     tagRepo,
		authz:       authz,
		suggester:   suggester,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	ActorID     uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssigneeID  *uint64
	TagIDs      []uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched; the Clear flags null out the optional fields.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *uint64
	ClearAssignee bool
	TagIDs        *[]uint64
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID    uint64
	ProjectID *uint64
	Assigned  bool
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
	Page      int
	PageSize  int
}

// CreateTask creates a task in a project
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if err := s.ensureProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, input.ActorID, input.ProjectID, policy.ActionCreateTask); err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if err := s.ensureAssignee(ctx, input.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}
	if err := s.ensureTags(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		CreatorID:   input.ActorID,
	}

	if err := s.taskRepo.Create(ctx, task, input.TagIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(ctx, task.ID, taskPreloads...)
}

// GetTask returns a task with related data. Tasks outside the actor's
// projects are reported as not found.
func (s *TaskService) GetTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID, taskPreloads...)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, actorID, task.ProjectID, policy.ActionViewTasks); err != nil {
		if errors.Is(err, policy.ErrNotMember) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actorID, task.ProjectID, policy.ActionUpdateTask); err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.ensureAssignee(ctx, task.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	var tagIDs []uint64
	if input.TagIDs != nil {
		tagIDs = append([]uint64{}, (*input.TagIDs)...)
		if err := s.ensureTags(ctx, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, task, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(ctx, task.ID, taskPreloads...)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actorID, task.ProjectID, policy.ActionDeleteTask); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListTasks returns tasks visible to the user. With ProjectID set the list
// is limited to that project; with Assigned set only tasks assigned to the
// user are returned.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	projectIDs, err := s.resolveProjectIDs(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return nil, 0, err
	}
	if len(projectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{
		ProjectIDs: projectIDs,
		Status:     input.Status,
		Priority:   input.Priority,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if input.Assigned {
		filter.AssigneeID = &input.UserID
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	ProjectID uint64
	ActorID   uint64
	Text      string
}

// GenerateTasks uses AI to suggest tasks for a project. Suggestions are not
// persisted; the client creates the ones the user accepts.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := s.authz.Authorize(ctx, input.ActorID, input.ProjectID, policy.ActionCreateTask); err != nil {
		return nil, err
	}

	aiTasks, err := s.suggester.GenerateTasksFromText(ctx, project.Name, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	valid := lo.FilterMap(aiTasks, func(t GeneratedTask, _ int) (GeneratedTask, bool) {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			return t, false
		}
		if !t.Priority.Valid() {
			t.Priority = models.TaskPriorityMedium
		}
		if t.DueDate != nil && t.DueDate.Before(cutoff) {
			t.DueDate = nil
		}
		return t, true
	})

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(valid) > constants.MaxAIGeneratedTasks {
		valid = valid[:constants.MaxAIGeneratedTasks]
	}

	return valid, nil
}

func (s *TaskService) resolveProjectIDs(ctx context.Context, userID uint64, projectID *uint64) ([]uint64, error) {
	if projectID != nil {
		if err := s.ensureProject(ctx, *projectID); err != nil {
			return nil, err
		}
		if err := s.authz.Authorize(ctx, userID, *projectID, policy.ActionViewTasks); err != nil {
			return nil, err
		}
		return []uint64{*projectID}, nil
	}

	ids, err := s.projectRepo.ListProjectIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project memberships: %w", err)
	}
	return ids, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureProject(ctx context.Context, projectID uint64) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

// ensureAssignee verifies that the assignee belongs to the task's project
func (s *TaskService) ensureAssignee(ctx context.Context, projectID, assigneeID uint64) error {
	if _, err := s.projectRepo.FindMember(ctx, projectID, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}

func (s *TaskService) ensureTags(ctx context.Context, tagIDs []uint64) error {
	ids := lo.Uniq(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	count, err := s.tagRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify tags: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidTags
	}
	return nil
}
