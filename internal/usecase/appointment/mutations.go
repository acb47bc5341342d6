package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-dashboard/internal/audit"
	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

// Actor is the staff member performing a mutation.
type Actor struct {
	UserID   uint
	Username string
}

// Invalidator is told when a mutation may have changed a month's counts.
// InvalidateDate is used when the only affected month is known.
type Invalidator interface {
	Invalidate()
	InvalidateDate(date string)
}

// ======================================================
// CREATE
// ======================================================

type CreateAppointment struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	invalidator Invalidator
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	invalidator Invalidator,
) *CreateAppointment {
	return &CreateAppointment{
		repo:        repo,
		audit:       audit,
		invalidator: invalidator,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor Actor,
	in models.AppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	if uc.invalidator != nil {
		uc.invalidator.InvalidateDate(in.Date)
	}
	uc.audit.Dispatch(mutationEvent(actor, audit.ActionAppointmentCreate, ap.ID, in))

	return ap, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateAppointment struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	invalidator Invalidator
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	invalidator Invalidator,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:        repo,
		audit:       audit,
		invalidator: invalidator,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	actor Actor,
	id uint,
	in models.AppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	// The turno's previous date is unknown, so no month is kept.
	invalidate(uc.invalidator)
	uc.audit.Dispatch(mutationEvent(actor, audit.ActionAppointmentUpdate, id, in))

	return ap, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteAppointment struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	invalidator Invalidator
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	invalidator Invalidator,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:        repo,
		audit:       audit,
		invalidator: invalidator,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	id uint,
) error {

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidate(uc.invalidator)
	uc.audit.Dispatch(mutationEvent(actor, audit.ActionAppointmentDelete, id, nil))

	return nil
}

func mutationEvent(actor Actor, action string, id uint, metadata any) audit.Event {
	userID := actor.UserID
	entityID := id
	return audit.Event{
		UserID:   &userID,
		Username: actor.Username,
		Action:   action,
		Entity:   "turno",
		EntityID: &entityID,
		Metadata: metadata,
	}
}

func invalidate(inv Invalidator) {
	if inv != nil {
		inv.Invalidate()
	}
}
