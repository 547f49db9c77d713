package clinicapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
)

// El backend no es consistente con el casing (PetId / petId, MedicalHistoryId /
// historyId). Los DTOs leen cualquier variante y escriben siempre camelCase.

type fields map[string]json.RawMessage

// lookup busca la primera clave que coincida sin importar mayúsculas.
func (f fields) lookup(keys ...string) (json.RawMessage, bool) {
	for _, want := range keys {
		if raw, ok := f[want]; ok {
			return raw, true
		}
		for k, raw := range f {
			if strings.EqualFold(k, want) {
				return raw, true
			}
		}
	}
	return nil, false
}

// str acepta string, número o null (ids numéricos en algunos endpoints).
func (f fields) str(keys ...string) string {
	raw, ok := f.lookup(keys...)
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func (f fields) date(keys ...string) (*time.Time, error) {
	s := f.str(keys...)
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keys[0], err)
	}
	return &t, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime: sin zona se interpreta en hora local, igual que el front.
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time %q", s)
}

// -------------------------
// Appointments
// -------------------------

type appointmentDTO struct {
	appointments.Appointment
}

func (d *appointmentDTO) UnmarshalJSON(b []byte) error {
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	a := appointments.Appointment{
		ID:        f.str("id", "appointmentId"),
		PetID:     f.str("petId"),
		DoctorID:  f.str("doctorId"),
		ServiceID: f.str("serviceId"),
	}
	if raw, ok := f.lookup("status", "appointmentStatus"); ok {
		if err := json.Unmarshal(raw, &a.Status); err != nil {
			return fmt.Errorf("status: %w", err)
		}
	}
	date, err := f.date("appointmentDate", "date")
	if err != nil {
		return err
	}
	if date != nil {
		a.AppointmentDate = *date
	}

	d.Appointment = a
	return nil
}

type statusPayload struct {
	Status int `json:"status"`
}

// -------------------------
// Medical history
// -------------------------

type historyDTO struct {
	medicalhistory.Record
}

func (d *historyDTO) UnmarshalJSON(b []byte) error {
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	rec := medicalhistory.Record{
		ID:            f.str("id", "medicalHistoryId", "historyId"),
		PetID:         f.str("petId"),
		DoctorID:      f.str("doctorId"),
		AppointmentID: f.str("appointmentId"),
		Description:   f.str("description"),
		Treatment:     f.str("treatment"),
		Notes:         f.str("notes"),
		NextServiceID: f.str("nextServiceId"),
		ReminderNote:  f.str("reminderNote"),
	}

	recordDate, err := f.date("recordDate")
	if err != nil {
		return err
	}
	if recordDate != nil {
		rec.RecordDate = *recordDate
	}
	if rec.NextAppointmentDate, err = f.date("nextAppointmentDate"); err != nil {
		return err
	}
	if t, err := f.date("createdAt"); err == nil && t != nil {
		rec.CreatedAt = *t
	}
	if t, err := f.date("updatedAt"); err == nil && t != nil {
		rec.UpdatedAt = *t
	}

	d.Record = rec
	return nil
}

// historyList acepta {records:[...]}, {data:[...]} o el array pelado.
type historyList []historyDTO

func (l *historyList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []historyDTO
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	raw, ok := f.lookup("records", "data", "items")
	if !ok {
		*l = nil
		return nil
	}
	var items []historyDTO
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

type historyPayload struct {
	ID                  string  `json:"id,omitempty"`
	PetID               string  `json:"petId"`
	DoctorID            *string `json:"doctorId"`
	AppointmentID       *string `json:"appointmentId"`
	RecordDate          string  `json:"recordDate"`
	Description         string  `json:"description"`
	Treatment           string  `json:"treatment"`
	Notes               string  `json:"notes"`
	NextAppointmentDate *string `json:"nextAppointmentDate"`
	NextServiceID       *string `json:"nextServiceId"`
	ReminderNote        string  `json:"reminderNote"`
}

func toPayload(rec medicalhistory.Record) historyPayload {
	p := historyPayload{
		ID:            rec.ID,
		PetID:         rec.PetID,
		DoctorID:      optional(rec.DoctorID),
		AppointmentID: optional(rec.AppointmentID),
		RecordDate:    rec.RecordDate.Format("2006-01-02"),
		Description:   rec.Description,
		Treatment:     rec.Treatment,
		Notes:         rec.Notes,
		NextServiceID: optional(rec.NextServiceID),
		ReminderNote:  rec.ReminderNote,
	}
	if rec.NextAppointmentDate != nil {
		s := rec.NextAppointmentDate.Format(time.RFC3339)
		p.NextAppointmentDate = &s
	}
	return p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
