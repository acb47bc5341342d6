package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/models"
	"github.com/BruksfildServices01/barber-dashboard/internal/validators"
)

type AppointmentHTTPRepository struct {
	client *Client
}

func NewAppointmentHTTPRepository(client *Client) *AppointmentHTTPRepository {
	return &AppointmentHTTPRepository{client: client}
}

// turnoList accepts both {"turnos": [...]} and a bare array; the backend
// has shipped both shapes.
type turnoList []models.Appointment

func (l *turnoList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var arr []models.Appointment
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}

	var wrapped struct {
		Turnos []models.Appointment `json:"turnos"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Turnos
	return nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *AppointmentHTTPRepository) ListByDate(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {

	const op = "list_by_date"
	if !validators.IsDate(date) {
		return nil, httperr.Invalid(op, fmt.Errorf("invalid date %q", date))
	}

	var out turnoList
	if err := r.client.do(ctx, op, http.MethodGet, "/turnos/fecha/"+date, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (r *AppointmentHTTPRepository) ListByRange(
	ctx context.Context,
	start string,
	end string,
) ([]models.Appointment, error) {

	const op = "list_by_range"
	query, err := rangeQuery(op, start, end)
	if err != nil {
		return nil, err
	}

	var out turnoList
	if err := r.client.do(ctx, op, http.MethodGet, "/turnos/", query, nil, &out, true); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (r *AppointmentHTTPRepository) Statistics(
	ctx context.Context,
	start string,
	end string,
) (map[string]any, error) {

	const op = "statistics"
	query, err := rangeQuery(op, start, end)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := r.client.do(ctx, op, http.MethodGet, "/turnos/estadisticas", query, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------

func (r *AppointmentHTTPRepository) Create(
	ctx context.Context,
	in models.AppointmentInput,
) (*models.Appointment, error) {

	const op = "create"
	if err := validators.Struct(in); err != nil {
		return nil, httperr.Invalid(op, err)
	}

	var out models.Appointment
	if err := r.client.do(ctx, op, http.MethodPost, "/turnos/", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AppointmentHTTPRepository) Update(
	ctx context.Context,
	id uint,
	in models.AppointmentInput,
) (*models.Appointment, error) {

	const op = "update"
	if err := validators.Struct(in); err != nil {
		return nil, httperr.Invalid(op, err)
	}

	var out models.Appointment
	if err := r.client.do(ctx, op, http.MethodPut, fmt.Sprintf("/turnos/%d", id), nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AppointmentHTTPRepository) Delete(
	ctx context.Context,
	id uint,
) error {
	return r.client.do(ctx, "delete", http.MethodDelete, fmt.Sprintf("/turnos/%d", id), nil, nil, nil, true)
}

func rangeQuery(op, start, end string) (url.Values, error) {
	if !validators.IsDate(start) || !validators.IsDate(end) {
		return nil, httperr.Invalid(op, fmt.Errorf("invalid range %q..%q", start, end))
	}
	if end < start {
		return nil, httperr.Invalid(op, fmt.Errorf("range end %s before start %s", end, start))
	}
	return url.Values{
		"fecha_inicio": {start},
		"fecha_fin":    {end},
	}, nil
}

func nonNil(l turnoList) []models.Appointment {
	if l == nil {
		return []models.Appointment{}
	}
	return []models.Appointment(l)
}

// Compile-time check
var _ domain.Repository = (*AppointmentHTTPRepository)(nil)
