package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/middleware"
)

type MeHandler struct {
	sessions middleware.SessionSource
}

func NewMeHandler(sessions middleware.SessionSource) *MeHandler {
	return &MeHandler{sessions: sessions}
}

// GetMe returns the live session, or 401 when there is none.
func (h *MeHandler) GetMe(c *gin.Context) {
	sess := h.sessions.Current()
	if sess == nil {
		httperr.Unauthorized(c, "no_session", "Sesión no iniciada")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sess})
}
