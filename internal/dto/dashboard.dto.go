package dto

import "time"

type StatsDTO struct {
	Total      int `json:"total"`
	Pending    int `json:"pendientes"`
	Completed  int `json:"completados"`
	InProgress int `json:"en_curso"`
}

type DashboardDTO struct {
	Date         string               `json:"fecha"`
	Title        string               `json:"titulo"`
	Appointments []AppointmentCardDTO `json:"turnos"`
	Stats        StatsDTO             `json:"estadisticas"`
	Loading      bool                 `json:"loading"`
	LastError    string               `json:"error,omitempty"`
	RefreshedAt  *time.Time           `json:"refreshed_at,omitempty"`
}
