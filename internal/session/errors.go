package session

import (
	"errors"
	"fmt"
)

type AuthKind string

const (
	InvalidCredentials AuthKind = "invalid_credentials"
	ServerError        AuthKind = "server_error"
	NetworkUnavailable AuthKind = "network_unavailable"
	// Interrupted means a teardown signal arrived while the login exchange
	// was in flight; the result was discarded.
	Interrupted AuthKind = "interrupted"
)

// AuthError is returned by Store.Login.
type AuthError struct {
	Kind   AuthKind
	Status int
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("login %s", e.Kind)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Message is the text shown on the login form.
func (e *AuthError) Message() string {
	switch e.Kind {
	case InvalidCredentials:
		return "Usuario o contraseña incorrectos"
	case NetworkUnavailable:
		return "No se pudo conectar con el servidor. Verifica que el backend esté ejecutándose."
	case Interrupted:
		return "La sesión se cerró mientras se iniciaba. Vuelve a intentarlo."
	}
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status != 0 {
		return fmt.Sprintf("Error del servidor: %d", e.Status)
	}
	return "Error al iniciar sesión"
}

func AuthKindOf(err error) AuthKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
