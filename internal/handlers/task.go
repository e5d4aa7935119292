package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task in the project from the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"due_date"`
		AssigneeID  *uint64             `json:"assignee_id"`
		TagIDs      []uint64            `json:"tag_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		ProjectID:   middleware.GetID(c, middleware.ContextKeyProjectID),
		ActorID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListProjectTasks returns the tasks of one project, newest first
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID := middleware.GetID(c, middleware.ContextKeyProjectID)
	h.listTasks(c, &projectID, false)
}

// ListTasks returns tasks from every project the user belongs to.
// Can filter by project_id.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var projectID *uint64
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		projectID = &id
	}
	h.listTasks(c, projectID, false)
}

// ListAssignedTasks returns the caller's assigned tasks across their projects
func (h *TaskHandler) ListAssignedTasks(c *gin.Context) {
	h.listTasks(c, nil, true)
}

func (h *TaskHandler) listTasks(c *gin.Context, projectID *uint64, assigned bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		UserID:    userID,
		ProjectID: projectID,
		Assigned:  assigned,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			apierrors.Respond(c, services.ErrInvalidStatus)
			return
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !priority.Valid() {
			apierrors.Respond(c, services.ErrInvalidPriority)
			return
		}
		input.Priority = &priority
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetID(c, middleware.ContextKeyTaskID), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task. due_date and assignee_id set to null
// are cleared; absent fields are left as they are.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		DueDate     json.RawMessage      `json:"due_date"`
		AssigneeID  json.RawMessage      `json:"assignee_id"`
		TagIDs      *[]uint64            `json:"tag_ids"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		TagIDs:      req.TagIDs,
	}

	var ok bool
	if input.DueDate, input.ClearDueDate, ok = decodeNullable[time.Time](req.DueDate); !ok {
		apierrors.BadRequest(c, "Invalid due_date")
		return
	}
	if input.AssigneeID, input.ClearAssignee, ok = decodeNullable[uint64](req.AssigneeID); !ok {
		apierrors.BadRequest(c, "Invalid assignee_id")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetID(c, middleware.ContextKeyTaskID), userID, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.GetID(c, middleware.ContextKeyTaskID), userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		ProjectID: middleware.GetID(c, middleware.ContextKeyProjectID),
		ActorID:   userID,
		Text:      req.Text,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generated,
	})
}

// decodeNullable reads an optional JSON field. It returns (nil, false, true)
// when the field was absent, (nil, true, true) for an explicit null and
// ok=false when the value does not decode as T.
func decodeNullable[T any](raw json.RawMessage) (value *T, isNull bool, ok bool) {
	if len(raw) == 0 {
		return nil, false, true
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, true, true
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, false
	}
	return &v, false, true
}
