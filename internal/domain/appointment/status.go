package appointment

import "strings"

// ===============================
// Appointment Status
// ===============================

// Status is the backend's estado. It is authoritative: the dashboard never
// derives or changes it locally, and values it does not know pass through.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusConfirmed Status = "confirmado"
	StatusCompleted Status = "completado"
	StatusCancelled Status = "cancelado"
)

// Known reports whether s is one of the statuses the backend documents.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label is the text shown on the card. Unknown values are shown verbatim.
func (s Status) Label() string {
	return strings.TrimSpace(string(s))
}

// CSSClass mirrors the class names the dashboard front end colours by.
func (s Status) CSSClass() string {
	if s.Known() {
		return string(s)
	}
	return "desconocido"
}
