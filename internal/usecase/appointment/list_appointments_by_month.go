package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

// Execute fetches the whole month in one range request and returns the
// number of turnos per day (YYYY-MM-DD). Days without turnos are absent.
func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	year int,
	month time.Month,
) (map[string]int, error) {

	start, end := timezone.MonthBounds(year, month)

	appointments, err := uc.repo.ListByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	counts := domain.CountByDate(appointments)
	for date := range counts {
		if date < start || date > end {
			delete(counts, date)
		}
	}

	return counts, nil
}
