package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"

	// Validation errors
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeNameRequired     = "NAME_REQUIRED"
	ErrCodeTitleRequired    = "TITLE_REQUIRED"
	ErrCodeInvalidTimezone  = "INVALID_TIMEZONE"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeInvalidPriority  = "INVALID_PRIORITY"
	ErrCodeInvalidRole      = "INVALID_ROLE"
	ErrCodeInvalidTags      = "INVALID_TAGS"
	ErrCodeEmailMismatch    = "EMAIL_MISMATCH"
	ErrCodeInvalidAssignee  = "INVALID_ASSIGNEE"
	ErrCodePasswordTooShort = "PASSWORD_TOO_SHORT"

	// Resource errors
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeProjectNotFound    = "PROJECT_NOT_FOUND"
	ErrCodeTaskNotFound       = "TASK_NOT_FOUND"
	ErrCodeTagNotFound        = "TAG_NOT_FOUND"
	ErrCodeMemberNotFound     = "MEMBER_NOT_FOUND"
	ErrCodeInvitationNotFound = "INVITATION_NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeAlreadyMember      = "ALREADY_MEMBER"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeExpiredToken       = "EXPIRED_TOKEN"

	// Business logic errors
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeOperationFailed  = "OPERATION_FAILED"
	ErrCodeAINotConfigured  = "AI_NOT_CONFIGURED"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeUpstreamDelivery   = "UPSTREAM_DELIVERY_FAILURE"
)

// APIError is the JSON body of every error response. RequestID echoes the
// X-Request-ID of the failed request so a report can be matched to the logs.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

var defaultMessages = map[string]string{
	ErrCodeUnauthorized:       "Authentication required",
	ErrCodeNotFound:           "Resource not found",
	ErrCodeInvalidInput:       "Invalid request",
	ErrCodeInternalError:      "Internal server error",
	ErrCodeServiceUnavailable: "Service temporarily unavailable",
}

// RespondWithError writes err with the given status, filling in the request
// id and a default message for the code when err has none.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	body := *err
	if body.Message == "" {
		body.Message = defaultMessages[body.Code]
	}
	body.RequestID = c.GetString(constants.ContextKeyRequestID)
	c.JSON(statusCode, &body)
}

func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest reports a malformed request body or parameter. Domain
// validation failures go through Respond with their own codes.
func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable is used by the health check when the database is down.
func ServiceUnavailable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}
