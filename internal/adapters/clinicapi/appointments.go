package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"vet-clinic-console/internal/domain/appointments"
)

type AppointmentsRepo struct {
	c *Client
}

func NewAppointmentsRepo(c *Client) *AppointmentsRepo {
	return &AppointmentsRepo{c: c}
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	var out appointmentDTO
	if err := r.c.http.DoJSON(ctx, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return appointments.Appointment{}, mapErr(err, appointments.ErrNotFound)
	}
	if out.ID == "" {
		out.ID = id
	}
	return out.Appointment, nil
}

// SetStatus manda el código numérico, que es lo que entiende el backend.
func (r *AppointmentsRepo) SetStatus(ctx context.Context, id string, status appointments.Status) error {
	err := r.c.http.DoJSON(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id)+"/status", nil, statusPayload{Status: int(status)}, nil)
	return mapErr(err, appointments.ErrNotFound)
}
