package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic-console/internal/domain/medicalhistory"
)

type MedicalHistoryRepo struct {
	db *sql.DB
}

func NewMedicalHistoryRepo(db *sql.DB) *MedicalHistoryRepo {
	return &MedicalHistoryRepo{db: db}
}

const medicalHistoryColumns = `
	id, pet_id, doctor_id, appointment_id,
	record_date, description, treatment, notes,
	next_appointment_date, next_service_id, reminder_note,
	created_at, updated_at`

func (r *MedicalHistoryRepo) Create(ctx context.Context, rec medicalhistory.Record) (medicalhistory.Record, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medical_histories (`+medicalHistoryColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		rec.ID,
		rec.PetID,
		nullString(rec.DoctorID),
		nullString(rec.AppointmentID),
		rec.RecordDate,
		rec.Description,
		rec.Treatment,
		rec.Notes,
		toNullTime(rec.NextAppointmentDate),
		nullString(rec.NextServiceID),
		rec.ReminderNote,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return medicalhistory.Record{}, err
	}
	return rec, nil
}

func (r *MedicalHistoryRepo) Update(ctx context.Context, rec medicalhistory.Record) (medicalhistory.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE medical_histories
		SET
			pet_id = $2,
			doctor_id = $3,
			appointment_id = $4,
			record_date = $5,
			description = $6,
			treatment = $7,
			notes = $8,
			next_appointment_date = $9,
			next_service_id = $10,
			reminder_note = $11,
			updated_at = $12
		WHERE id = $1
		RETURNING created_at
	`,
		rec.ID,
		rec.PetID,
		nullString(rec.DoctorID),
		nullString(rec.AppointmentID),
		rec.RecordDate,
		rec.Description,
		rec.Treatment,
		rec.Notes,
		toNullTime(rec.NextAppointmentDate),
		nullString(rec.NextServiceID),
		rec.ReminderNote,
		rec.UpdatedAt,
	)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return medicalhistory.Record{}, medicalhistory.ErrNotFound
		}
		return medicalhistory.Record{}, err
	}
	return rec, nil
}

func (r *MedicalHistoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medical_histories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicalhistory.ErrNotFound
	}
	return nil
}

// ListByPet devuelve el más reciente primero; id desempata para que el orden sea estable.
func (r *MedicalHistoryRepo) ListByPet(ctx context.Context, petID string, page medicalhistory.Page) ([]medicalhistory.Record, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}
	limit := page.Limit
	if limit <= 0 {
		limit = medicalhistory.LookupLimit
	}
	offset := 0
	if page.Page > 1 {
		offset = (page.Page - 1) * limit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+medicalHistoryColumns+`
		FROM medical_histories
		WHERE pet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, petID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicalhistory.Record, 0)
	for rows.Next() {
		var rec medicalhistory.Record
		var doctorID, appointmentID, nextServiceID sql.NullString
		var next sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.PetID,
			&doctorID,
			&appointmentID,
			&rec.RecordDate,
			&rec.Description,
			&rec.Treatment,
			&rec.Notes,
			&next,
			&nextServiceID,
			&rec.ReminderNote,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}

		rec.DoctorID = doctorID.String
		rec.AppointmentID = appointmentID.String
		rec.NextServiceID = nextServiceID.String
		if next.Valid {
			t := next.Time
			rec.NextAppointmentDate = &t
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}
