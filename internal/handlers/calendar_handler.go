package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-dashboard/internal/calendar"
	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/httpresp"
	"github.com/BruksfildServices01/barber-dashboard/internal/validators"
)

type CalendarHandler struct {
	view *calendar.View
}

func NewCalendarHandler(view *calendar.View) *CalendarHandler {
	return &CalendarHandler{view: view}
}

func (h *CalendarHandler) Get(c *gin.Context) {
	h.respond(c, h.view.Load)
}

func (h *CalendarHandler) Next(c *gin.Context) {
	h.respond(c, h.view.Next)
}

func (h *CalendarHandler) Prev(c *gin.Context) {
	h.respond(c, h.view.Prev)
}

// Day always answers 200: a failed load is an empty day.
func (h *CalendarHandler) Day(c *gin.Context) {
	date := c.Param("date")
	if !validators.IsDate(date) {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida, se espera AAAA-MM-DD")
		return
	}

	httpresp.OK(c, h.view.DayDetails(c.Request.Context(), date))
}

// respond runs a load and renders the grid. Load failures are reported in
// the body; the grid is still drawn.
func (h *CalendarHandler) respond(c *gin.Context, load func(context.Context) error) {
	err := load(c.Request.Context())

	out := h.view.Snapshot()
	if err != nil {
		out.Error = httperr.UserMessage(err)
	}
	httpresp.OK(c, out)
}
