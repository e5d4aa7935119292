package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/logutils"
)

// RequireAuth resolves the session's user id and stores it on the context as
// a uint64. A session holding an id that cannot be a user is cleared.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(constants.ContextKeyUserID)
		if raw == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, ok := toUserID(raw)
		if !ok {
			logutils.Log.WithField("value", raw).Warn("discarding session with malformed user id")
			session.Delete(constants.ContextKeyUserID)
			if err := session.Save(); err != nil {
				logutils.Log.WithError(err).Error("failed to clear session")
			}
			apierrors.Unauthorized(c, "Session is no longer valid")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the id RequireAuth placed on the context.
func GetUserID(c *gin.Context) (uint64, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(raw)
}

// toUserID accepts the integer types a session codec may hand back. Zero is
// never a valid user.
func toUserID(raw any) (uint64, bool) {
	var id uint64
	switch v := raw.(type) {
	case uint64:
		id = v
	case uint:
		id = uint64(v)
	case int:
		if v < 0 {
			return 0, false
		}
		id = uint64(v)
	case int64:
		if v < 0 {
			return 0, false
		}
		id = uint64(v)
	default:
		return 0, false
	}
	return id, id != 0
}
