package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-dashboard/internal/dashboard"
	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/httpresp"
)

type DashboardHandler struct {
	view *dashboard.View
}

func NewDashboardHandler(view *dashboard.View) *DashboardHandler {
	return &DashboardHandler{view: view}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	httpresp.OK(c, h.view.Snapshot())
}

// Refresh runs a refresh cycle now instead of waiting for the next tick.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	err := h.view.Refresh(c.Request.Context())
	switch {
	case errors.Is(err, dashboard.ErrNotMounted):
		httperr.Write(c, http.StatusConflict, "dashboard_not_mounted", "El panel no está activo")
		return
	case err != nil:
		httperr.FromRepository(c, err)
		return
	}

	httpresp.OK(c, h.view.Snapshot())
}

func (h *DashboardHandler) Toggle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	expanded, err := h.view.Toggle(id)
	if err != nil {
		httperr.NotFound(c, "appointment_not_found", "Turno no encontrado")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "expanded": expanded})
}

// Contact returns the WhatsApp link for a turno on today's dashboard.
func (h *DashboardHandler) Contact(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	card, found := h.view.Card(id)
	if !found {
		httperr.NotFound(c, "appointment_not_found", "Turno no encontrado")
		return
	}
	if card.ContactURL == "" {
		httperr.Write(c, http.StatusUnprocessableEntity, "no_phone", "El cliente no tiene teléfono")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "url": card.ContactURL})
}
