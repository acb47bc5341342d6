package appointment

import "github.com/BruksfildServices01/barber-dashboard/internal/models"

// Occupancy colours a calendar cell. It is a coarse count of turnos against
// TotalSlots and does not detect overlapping bookings.
type Occupancy string

const (
	NoAppointments     Occupancy = "sin-turnos"
	PartiallyAvailable Occupancy = "con-turnos-disponible"
	Full               Occupancy = "completo"
)

type DayOccupancy struct {
	Date           string    `json:"date"`
	Occupied       int       `json:"occupied"`
	Classification Occupancy `json:"classification"`
}

// Classify maps a count of turnos on one day to its Occupancy. Exactly
// TotalSlots is Full.
func Classify(occupied int) Occupancy {
	switch {
	case occupied <= 0:
		return NoAppointments
	case occupied < TotalSlots:
		return PartiallyAvailable
	default:
		return Full
	}
}

// OccupancyFor counts the appointments dated on date (YYYY-MM-DD) and
// classifies the day.
func OccupancyFor(date string, appointments []models.Appointment) DayOccupancy {
	occupied := 0
	for i := range appointments {
		if IsOn(&appointments[i], date) {
			occupied++
		}
	}
	return DayOccupancy{
		Date:           date,
		Occupied:       occupied,
		Classification: Classify(occupied),
	}
}

// CountByDate groups a month listing by date in one pass.
func CountByDate(appointments []models.Appointment) map[string]int {
	out := make(map[string]int)
	for i := range appointments {
		if d := DateOf(&appointments[i]); d != "" {
			out[d]++
		}
	}
	return out
}
