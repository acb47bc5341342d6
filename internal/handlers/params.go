package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-dashboard/internal/usecase/appointment"
)

// idParam reads :id, writing a 400 when it is not a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido")
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) ucAppointment.Actor {
	return ucAppointment.Actor{
		UserID:   c.GetUint(middleware.ContextUserID),
		Username: c.GetString(middleware.ContextUsername),
	}
}
