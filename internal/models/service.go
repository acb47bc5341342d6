package models

type Service struct {
	ID          uint   `json:"id"`
	Name        string `json:"nombre"`
	DurationMin int    `json:"duracion_min"`
	Price       int    `json:"precio"` // centavos
}
