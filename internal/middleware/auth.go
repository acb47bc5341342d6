package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextUserRole = "userRole"
)

// SessionSource is the read side of session.Store.
type SessionSource interface {
	Current() *session.Session
}

// RequireSession rejects requests while no staff session is live.
func RequireSession(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Current()
		if sess == nil {
			httperr.Abort(c, http.StatusUnauthorized, "no_session", "Sesión no iniciada")
			return
		}

		c.Set(ContextUserID, sess.UserID)
		c.Set(ContextUsername, sess.Username)
		c.Set(ContextUserRole, sess.Role)

		c.Next()
	}
}
