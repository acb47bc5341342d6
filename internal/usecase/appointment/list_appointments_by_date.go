package appointment

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

type ListAppointmentsByDate struct {
	repo           domain.Repository
	contactMessage string
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	contactMessage string,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:           repo,
		contactMessage: contactMessage,
	}
}

// Execute returns the cards for one day ordered by start time. Expanded is
// left false; the caller owns expansion state.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date string,
) ([]dto.AppointmentCardDTO, error) {

	appointments, err := uc.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	// Some backend builds answer with neighbouring days as well.
	appointments = domain.FilterByDate(appointments, date)

	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].StartTime < appointments[j].StartTime
	})

	out := make([]dto.AppointmentCardDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, ToCard(&appointments[i], uc.contactMessage))
	}

	return out, nil
}

// ToCard maps a backend turno to its display form.
func ToCard(ap *models.Appointment, contactMessage string) dto.AppointmentCardDTO {
	status := domain.StatusOf(ap)
	phone := domain.ClientPhone(ap)
	link, _ := domain.ContactLink(phone, contactMessage)

	return dto.AppointmentCardDTO{
		ID:          ap.ID,
		Date:        domain.DateOf(ap),
		StartTime:   domain.FormatTime(ap.StartTime),
		EndTime:     domain.FormatTime(ap.EndTime),
		Status:      string(status),
		StatusLabel: status.Label(),
		StatusClass: status.CSSClass(),
		ClientName:  domain.ClientName(ap),
		ClientPhone: phone,
		ServiceName: domain.ServiceName(ap),
		ContactURL:  link,
	}
}
