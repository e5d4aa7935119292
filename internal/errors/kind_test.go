package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/constants"
)

func TestError_Is(t *testing.T) {
	projectMissing := NewWithCode(KindNotFound, ErrCodeProjectNotFound, "Project not found")
	invitationMissing := NewWithCode(KindNotFound, ErrCodeInvitationNotFound, "Invitation not found")

	wrapped := fmt.Errorf("signup: %w", invitationMissing)
	assert.ErrorIs(t, wrapped, invitationMissing)
	assert.NotErrorIs(t, wrapped, projectMissing)

	cause := stderrors.New("smtp timeout")
	delivery := New(KindUpstreamDelivery, "email delivery failed").Wrap(cause)
	assert.ErrorIs(t, delivery, cause)
	assert.Equal(t, ErrCodeUpstreamDelivery, delivery.Code)
	assert.Equal(t, "email delivery failed: smtp timeout", delivery.Error())
	assert.Equal(t, KindUpstreamDelivery, KindOf(delivery))
	assert.Equal(t, KindInternal, KindOf(cause))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"validation", NewWithCode(KindValidation, ErrCodeInvalidRole, "Invalid role"), http.StatusBadRequest, ErrCodeInvalidRole},
		{"not found", NewWithCode(KindNotFound, ErrCodeTaskNotFound, "Task not found"), http.StatusNotFound, ErrCodeTaskNotFound},
		{"expired", New(KindExpiredToken, "Invitation has expired"), http.StatusGone, ErrCodeExpiredToken},
		{"upstream", New(KindUpstreamDelivery, "email delivery failed"), http.StatusBadGateway, ErrCodeUpstreamDelivery},
		{"untyped", stderrors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRespondWithError_EchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyRequestID, "req-42")

	Unauthorized(c, "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, APIError{Code: ErrCodeUnauthorized, Message: "Authentication required", RequestID: "req-42"}, body)
}
