package dto

// AppointmentCardDTO is one turno as the dashboard renders it.
type AppointmentCardDTO struct {
	ID        uint   `json:"id"`
	Date      string `json:"fecha"`
	StartTime string `json:"hora_inicio"`
	EndTime   string `json:"hora_fin"`

	Status      string `json:"estado"`
	StatusLabel string `json:"estado_label"`
	StatusClass string `json:"estado_class"`

	ClientName  string `json:"cliente_nombre"`
	ClientPhone string `json:"cliente_telefono"`
	ServiceName string `json:"servicio_nombre,omitempty"`

	ContactURL string `json:"contact_url,omitempty"`
	Expanded   bool   `json:"expanded"`
}
