package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

// Context keys for parsed path parameters
const (
	ContextKeyProjectID = "project_id"
	ContextKeyTaskID    = "task_id"
	ContextKeyTagID     = "tag_id"
)

// RequireIDParam parses the numeric path parameter param and stores it in
// the context under key. Malformed ids are rejected with 400 before any
// handler or store is reached.
func RequireIDParam(param, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+param)
			c.Abort()
			return
		}

		c.Set(key, id)
		c.Next()
	}
}

// RequireProjectID parses :id as a project id.
func RequireProjectID() gin.HandlerFunc {
	return RequireIDParam("id", ContextKeyProjectID)
}

// RequireTaskID parses :id as a task id.
func RequireTaskID() gin.HandlerFunc {
	return RequireIDParam("id", ContextKeyTaskID)
}

// RequireTagID parses :id as a tag id.
func RequireTagID() gin.HandlerFunc {
	return RequireIDParam("id", ContextKeyTagID)
}

// GetID returns an id stored by RequireIDParam.
func GetID(c *gin.Context, key string) uint64 {
	return c.GetUint64(key)
}
