package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindServerFault  Kind = "server_fault"
	KindUnreachable  Kind = "unreachable"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindUnexpected   Kind = "unexpected"
)

// RepositoryError is returned by every AppointmentRepository operation.
// HTTPStatus is zero when no response was received or the request was
// rejected locally.
type RepositoryError struct {
	Kind       Kind
	HTTPStatus int
	Op         string
	// Detail is the backend's own message, when it sent one.
	Detail     string
	Err        error
}

func (e *RepositoryError) Error() string {
	msg := fmt.Sprintf("repository %s: %s", e.Op, e.Kind)
	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.HTTPStatus)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// FromStatus maps a non-2xx backend status to its Kind.
func FromStatus(op string, status int, cause error) *RepositoryError {
	kind := KindUnexpected
	switch {
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		kind = KindValidation
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= http.StatusInternalServerError:
		kind = KindServerFault
	}
	return &RepositoryError{Kind: kind, HTTPStatus: status, Op: op, Err: cause}
}

func Unreachable(op string, cause error) *RepositoryError {
	return &RepositoryError{Kind: KindUnreachable, Op: op, Err: cause}
}

func Invalid(op string, cause error) *RepositoryError {
	return &RepositoryError{Kind: KindValidation, Op: op, Err: cause}
}

// KindOf returns the Kind of a wrapped RepositoryError, or "" for any other
// error.
func KindOf(err error) Kind {
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage is what the dashboard shows when a load fails.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindValidation:
		return "Error en el formato de fechas. Intenta recargar la página."
	case KindServerFault:
		return "Error del servidor. Verifica que la base de datos esté inicializada."
	case KindUnreachable:
		return "No se pudo conectar con el servidor. Verifica que el backend esté ejecutándose."
	default:
		return "Error al cargar los datos. Intenta recargar la página."
	}
}
