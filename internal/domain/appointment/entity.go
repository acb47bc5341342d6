package appointment

import (
	"strings"

	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

// DateOf returns the calendar day of an appointment. The backend may send a
// full timestamp; only the YYYY-MM-DD prefix is meaningful.
func DateOf(ap *models.Appointment) string {
	d := strings.TrimSpace(ap.Date)
	if len(d) > len("2006-01-02") {
		d = d[:len("2006-01-02")]
	}
	return d
}

func IsOn(ap *models.Appointment, date string) bool {
	return date != "" && DateOf(ap) == date
}

func StatusOf(ap *models.Appointment) Status {
	return Status(ap.Status)
}

// FilterByDate keeps the appointments dated on date, preserving order.
func FilterByDate(appointments []models.Appointment, date string) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, ap := range appointments {
		if IsOn(&ap, date) {
			out = append(out, ap)
		}
	}
	return out
}
