package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

// Repository is the typed façade over the turnos backend. Dates are
// YYYY-MM-DD; range bounds are inclusive of the whole end day.
type Repository interface {
	// -------- Queries --------
	ListByDate(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	ListByRange(
		ctx context.Context,
		start string,
		end string,
	) ([]models.Appointment, error)

	Statistics(
		ctx context.Context,
		start string,
		end string,
	) (map[string]any, error)

	// -------- Mutations (pass-through) --------
	Create(
		ctx context.Context,
		in models.AppointmentInput,
	) (*models.Appointment, error)

	Update(
		ctx context.Context,
		id uint,
		in models.AppointmentInput,
	) (*models.Appointment, error)

	Delete(
		ctx context.Context,
		id uint,
	) error
}
