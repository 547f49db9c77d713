package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vet-clinic-console/internal/domain/appointments"
)

// AppointmentsRepo lee citas y escribe solo el estado; la agenda la administra otro sistema.
type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id, doctor_id, service_id,
			status, appointment_date
		FROM appointments
		WHERE id = $1
	`, id)

	var a appointments.Appointment
	var doctorID, serviceID sql.NullString
	var status int
	if err := row.Scan(
		&a.ID,
		&a.PetID,
		&doctorID,
		&serviceID,
		&status,
		&a.AppointmentDate,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	a.DoctorID = doctorID.String
	a.ServiceID = serviceID.String
	a.Status = appointments.Status(status)

	return a, nil
}

func (r *AppointmentsRepo) SetStatus(ctx context.Context, id string, status appointments.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, int(status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}
