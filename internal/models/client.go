package models

// Client is the person a turno was booked for. Both fields are optional on
// the wire.
type Client struct {
	ID    uint   `json:"id"`
	Name  string `json:"nombre"`
	Phone string `json:"telefono"`
}
