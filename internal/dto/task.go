package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	ProjectID   uint64              `json:"project_id"`
	AssigneeID  *uint64             `json:"assignee_id"`
	CreatorID   uint64              `json:"creator_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Project     *ProjectSummaryDTO  `json:"project,omitempty"`
	Assignee    *UserSummaryDTO     `json:"assignee,omitempty"`
	Creator     *UserSummaryDTO     `json:"creator,omitempty"`
	Tags        []TagDTO            `json:"tags"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatorID:   task.CreatorID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Tags:        ToTagDTOs(task.Tags),
	}

	// Include relations if preloaded
	if task.Project.ID != 0 {
		dto.Project = &ProjectSummaryDTO{ID: task.Project.ID, Name: task.Project.Name}
	}
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserSummaryDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Creator.ID != 0 {
		creator := ToUserSummaryDTO(task.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	return lo.Map(tasks, func(t models.Task, _ int) TaskDTO {
		return ToTaskDTO(t)
	})
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
