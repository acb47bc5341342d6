package dto

type DayCellDTO struct {
	Date           string `json:"fecha"`
	Day            int    `json:"dia"`
	InMonth        bool   `json:"en_mes"`
	IsToday        bool   `json:"hoy"`
	Occupied       int    `json:"turnos"`
	Classification string `json:"clase"`
}

type CalendarDTO struct {
	Year    int            `json:"anio"`
	Month   int            `json:"mes"`
	Title   string         `json:"titulo"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
	Weeks   [][]DayCellDTO `json:"semanas"`
}

type DayDetailsDTO struct {
	Date           string               `json:"fecha"`
	Classification string               `json:"clase"`
	Appointments   []AppointmentCardDTO `json:"turnos"`
}
