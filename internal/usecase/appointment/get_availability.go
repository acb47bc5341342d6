package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
)

type GetDayAvailability struct {
	list *ListAppointmentsByDate
}

func NewGetDayAvailability(list *ListAppointmentsByDate) *GetDayAvailability {
	return &GetDayAvailability{list: list}
}

// Execute loads one day and classifies it. A failed load degrades to an
// empty day; the error is still returned so the caller can log it.
func (uc *GetDayAvailability) Execute(
	ctx context.Context,
	date string,
) (dto.DayDetailsDTO, error) {

	cards, err := uc.list.Execute(ctx, date)
	if err != nil {
		cards = []dto.AppointmentCardDTO{}
	}

	return dto.DayDetailsDTO{
		Date:           date,
		Classification: string(domain.Classify(len(cards))),
		Appointments:   cards,
	}, err
}
