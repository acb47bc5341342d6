package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/models"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
)

// LoginObserver counts login attempts by result.
type LoginObserver interface {
	ObserveLogin(result string)
}

type AuthHandler struct {
	store    *session.Store
	observer LoginObserver
}

func NewAuthHandler(store *session.Store, observer LoginObserver) *AuthHandler {
	return &AuthHandler{store: store, observer: observer}
}

// --------- Requests ---------

type SignalRequest struct {
	Event string `json:"event" binding:"required,oneof=hidden unload"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		httperr.BadRequest(c, "invalid_request", "Usuario y contraseña son obligatorios")
		return
	}

	sess, err := h.store.Login(c.Request.Context(), creds)
	if err != nil {
		var authErr *session.AuthError
		if !errors.As(err, &authErr) {
			authErr = &session.AuthError{Kind: session.ServerError, Err: err}
		}
		h.observe(string(authErr.Kind))
		httperr.Write(c, loginStatus(authErr.Kind), string(authErr.Kind), authErr.Message())
		return
	}

	h.observe("ok")
	c.JSON(http.StatusOK, gin.H{"user": sess})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.store.Logout()
	c.Status(http.StatusNoContent)
}

// Signal receives page lifecycle beacons from the browser.
func (h *AuthHandler) Signal(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_signal", "Evento desconocido")
		return
	}

	switch req.Event {
	case "hidden":
		h.store.OnHidden()
	case "unload":
		h.store.OnUnloading()
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) observe(result string) {
	if h.observer != nil {
		h.observer.ObserveLogin(result)
	}
}

func loginStatus(kind session.AuthKind) int {
	switch kind {
	case session.InvalidCredentials:
		return http.StatusUnauthorized
	case session.NetworkUnavailable:
		return http.StatusServiceUnavailable
	case session.Interrupted:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
