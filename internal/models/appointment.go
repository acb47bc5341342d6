package models

// Appointment is a turno as returned by the backend. Dates are YYYY-MM-DD in
// shop-local time; times are HH:MM or HH:MM:SS.
type Appointment struct {
	ID uint `json:"id"`

	ClientID  uint `json:"cliente_id"`
	ServiceID uint `json:"servicio_id"`

	Date      string `json:"fecha"`
	StartTime string `json:"hora_inicio"`
	EndTime   string `json:"hora_fin"`

	Status string `json:"estado"`

	// Some backend builds flatten the client onto the turno.
	ClientName  string `json:"cliente_nombre,omitempty"`
	ClientPhone string `json:"cliente_telefono,omitempty"`

	Client  *Client  `json:"cliente,omitempty"`
	Service *Service `json:"servicio,omitempty"`

	CreatedAt string `json:"creado_en,omitempty"`
}

// AppointmentInput is the body of POST/PUT /turnos.
type AppointmentInput struct {
	ClientID  uint   `json:"cliente_id" validate:"required"`
	ServiceID uint   `json:"servicio_id" validate:"required"`
	Date      string `json:"fecha" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"hora_inicio" validate:"required,clocktime,workhours"`
	EndTime   string `json:"hora_fin" validate:"required,clocktime"`
	Status    string `json:"estado" validate:"required,oneof=pendiente confirmado cancelado completado"`
}
