package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/testutil"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env     testEnv
	handler *TaskHandler

	owner    *models.User
	member   *models.User
	outsider *models.User
	project  *models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())
	suite.handler = suite.env.handlers.Task

	suite.owner = testutil.CreateUser(suite.T(), suite.env.db, "owner@example.com")
	suite.member = testutil.CreateUser(suite.T(), suite.env.db, "member@example.com")
	suite.outsider = testutil.CreateUser(suite.T(), suite.env.db, "outsider@example.com")
	suite.project = testutil.CreateProject(suite.T(), suite.env.db, "Test Project", suite.owner)
	testutil.AddMember(suite.T(), suite.env.db, suite.project.ID, suite.member.ID, models.RoleMember)
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// Helper function to set path ids (simulates the RequireIDParam middleware)
func (suite *TaskHandlerTestSuite) withProject(c *gin.Context, projectID uint64) {
	c.Set(middleware.ContextKeyProjectID, projectID)
}

func (suite *TaskHandlerTestSuite) withTask(c *gin.Context, taskID uint64) {
	c.Set(middleware.ContextKeyTaskID, taskID)
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func (suite *TaskHandlerTestSuite) decodeError(w *httptest.ResponseRecorder) errorBody {
	var response errorBody
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

// TestCreateTask_Success tests successful task creation
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	tag := models.Tag{Name: "backend", Color: "#000000"}
	suite.Require().NoError(suite.env.db.Create(&tag).Error)

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "New Task",
		"description": "Task Description",
		"priority":    "high",
		"due_date":    "2030-01-02T15:04:05Z",
		"assignee_id": suite.member.ID,
		"tag_ids":     []uint64{tag.ID},
	})

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, suite.owner.ID)
	suite.withProject(c, suite.project.ID)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	response := suite.decodeTask(w)
	suite.Equal("New Task", response.Title)
	suite.Equal(models.TaskStatusTodo, response.Status)
	suite.Equal(models.TaskPriorityHigh, response.Priority)
	suite.Equal(suite.owner.ID, response.CreatorID)
	suite.Require().NotNil(response.Assignee)
	suite.Equal(suite.member.Email, response.Assignee.Email)
	suite.Require().Len(response.Tags, 1)
	suite.Equal("backend", response.Tags[0].Name)
	suite.Require().NotNil(response.Project)
	suite.Equal("Test Project", response.Project.Name)
}

// TestCreateTask_InvalidRequest tests task creation with invalid request
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	body, _ := json.Marshal(map[string]interface{}{
		"description": "missing title",
	})

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, suite.owner.ID)
	suite.withProject(c, suite.project.ID)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AssigneeOutsideProject() {
	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Task",
		"assignee_id": suite.outsider.ID,
	})

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, suite.owner.ID)
	suite.withProject(c, suite.project.ID)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_ASSIGNEE", suite.decodeError(w).Code)
}

// TestCreateTask_NotProjectMember tests task creation when user is not a member
func (suite *TaskHandlerTestSuite) TestCreateTask_NotProjectMember() {
	body, _ := json.Marshal(map[string]interface{}{"title": "Task"})

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, suite.outsider.ID)
	suite.withProject(c, suite.project.ID)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ProjectNotFound() {
	body, _ := json.Marshal(map[string]interface{}{"title": "Task"})

	c, w := suite.createAuthContext("POST", "/api/projects/999/tasks", body, suite.owner.ID)
	suite.withProject(c, 999)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

// TestListTasks_Success tests listing a project's tasks with pagination
func (suite *TaskHandlerTestSuite) TestListProjectTasks_Success() {
	for i := 0; i < 3; i++ {
		testutil.CreateTask(suite.T(), suite.env.db, "Task "+strconv.Itoa(i), suite.project.ID, suite.owner.ID)
	}

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks?page=1&limit=2", nil, suite.member.ID)
	suite.withProject(c, suite.project.ID)

	suite.handler.ListProjectTasks(c)

	suite.Equal(http.StatusOK, w.Code)
	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Tasks, 2)
	suite.Equal(int64(3), response.Pagination.Total)
	suite.Equal(2, response.Pagination.TotalPages)
}

// TestListTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tasks", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListTasks(c)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// TestListTasks_NotProjectMember tests filtering by a project the user is not in
func (suite *TaskHandlerTestSuite) TestListTasks_NotProjectMember() {
	c, w := suite.createAuthContext("GET", "/api/tasks?project_id="+strconv.FormatUint(suite.project.ID, 10), nil, suite.outsider.ID)

	suite.handler.ListTasks(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidFilter() {
	c, w := suite.createAuthContext("GET", "/api/tasks?status=blocked", nil, suite.owner.ID)

	suite.handler.ListTasks(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListAssignedTasks() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Assigned", suite.project.ID, suite.owner.ID)
	suite.Require().NoError(suite.env.db.Model(task).Update("assignee_id", suite.member.ID).Error)
	testutil.CreateTask(suite.T(), suite.env.db, "Unassigned", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/assigned", nil, suite.member.ID)

	suite.handler.ListAssignedTasks(c)

	suite.Equal(http.StatusOK, w.Code)
	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Assigned", response.Tasks[0].Title)
}

// TestGetTask_Success tests successful task retrieval
func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Test Task", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, suite.member.ID)
	suite.withTask(c, task.ID)

	suite.handler.GetTask(c)

	suite.Equal(http.StatusOK, w.Code)
	response := suite.decodeTask(w)
	suite.Equal(task.ID, response.ID)
	suite.Equal(task.Title, response.Title)
	suite.NotNil(response.Tags)
}

// TestGetTask_NotMember hides tasks of other projects
func (suite *TaskHandlerTestSuite) TestGetTask_NotMember() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Secret", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, suite.outsider.ID)
	suite.withTask(c, task.ID)

	suite.handler.GetTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

// TestUpdateTask_Success tests successful task update
func (suite *TaskHandlerTestSuite) TestUpdateTask_Success() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Original Title", suite.project.ID, suite.owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Updated Title",
		"status":      "in-progress",
		"assignee_id": suite.member.ID,
	})

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, suite.member.ID)
	suite.withTask(c, task.ID)

	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	response := suite.decodeTask(w)
	suite.Equal("Updated Title", response.Title)
	suite.Equal(models.TaskStatusInProgress, response.Status)
	suite.Require().NotNil(response.AssigneeID)
	suite.Equal(suite.member.ID, *response.AssigneeID)
	suite.Equal(models.TaskPriorityMedium, response.Priority)
}

// TestUpdateTask_NullDueDate clears the due date only when null is sent
func (suite *TaskHandlerTestSuite) TestUpdateTask_NullDueDate() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Task", suite.project.ID, suite.owner.ID)
	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.env.db.Model(task).Updates(map[string]interface{}{
		"due_date":    due,
		"assignee_id": suite.member.ID,
	}).Error)

	// Absent fields stay untouched.
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", []byte(`{"title":"Renamed"}`), suite.owner.ID)
	suite.withTask(c, task.ID)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusOK, w.Code)
	response := suite.decodeTask(w)
	suite.Require().NotNil(response.DueDate)
	suite.True(due.Equal(*response.DueDate))
	suite.NotNil(response.AssigneeID)

	// Explicit null clears.
	c, w = suite.createAuthContext("PATCH", "/api/tasks/1", []byte(`{"due_date":null,"assignee_id":null}`), suite.owner.ID)
	suite.withTask(c, task.ID)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusOK, w.Code)
	response = suite.decodeTask(w)
	suite.Nil(response.DueDate)
	suite.Nil(response.AssigneeID)
}

// TestUpdateTask_InvalidRequest tests update with a malformed due date
func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidRequest() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Task", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", []byte(`{"due_date":"tomorrow"}`), suite.owner.ID)
	suite.withTask(c, task.ID)

	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotMember() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Task", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", []byte(`{"title":"Hijack"}`), suite.outsider.ID)
	suite.withTask(c, task.ID)

	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("FORBIDDEN", suite.decodeError(w).Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ViewerInsufficientRole() {
	viewer := testutil.CreateUser(suite.T(), suite.env.db, "viewer@example.com")
	testutil.AddMember(suite.T(), suite.env.db, suite.project.ID, viewer.ID, models.RoleViewer)
	task := testutil.CreateTask(suite.T(), suite.env.db, "Task", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", []byte(`{"title":"Edit"}`), viewer.ID)
	suite.withTask(c, task.ID)

	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("INSUFFICIENT_PERMISSIONS", suite.decodeError(w).Code)
}

// TestDeleteTask_Success tests successful task deletion
func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Task to Delete", suite.project.ID, suite.owner.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, suite.member.ID)
	suite.withTask(c, task.ID)

	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.env.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_NotFound() {
	c, w := suite.createAuthContext("DELETE", "/api/tasks/999", nil, suite.owner.ID)
	suite.withTask(c, 999)

	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_NotConfigured() {
	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks/generate", []byte(`{"text":"write docs"}`), suite.owner.ID)
	suite.withProject(c, suite.project.ID)

	suite.handler.GenerateTasks(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

func TestDecodeNullable(t *testing.T) {
	v, isNull, ok := decodeNullable[uint64](nil)
	assert.Nil(t, v)
	assert.False(t, isNull)
	assert.True(t, ok)

	v, isNull, ok = decodeNullable[uint64](json.RawMessage(" null"))
	assert.Nil(t, v)
	assert.True(t, isNull)
	assert.True(t, ok)

	v, isNull, ok = decodeNullable[uint64](json.RawMessage("42"))
	if assert.NotNil(t, v) {
		assert.Equal(t, uint64(42), *v)
	}
	assert.False(t, isNull)
	assert.True(t, ok)

	_, _, ok = decodeNullable[uint64](json.RawMessage(`"abc"`))
	assert.False(t, ok)
}
