package medicalhistory

import "time"

// Record es la ficha clínica que queda asociada a una cita completada.
type Record struct {
	ID            string
	PetID         string
	DoctorID      string // "" = sin doctor
	AppointmentID string // "" = registro manual, sin cita

	// RecordDate es la fecha del examen; se usa para emparejar con la cita.
	RecordDate time.Time

	Description string
	Treatment   string
	Notes       string

	// Seguimiento sugerido (fecha+hora combinadas) y recordatorio para el cliente.
	NextAppointmentDate *time.Time
	NextServiceID       string
	ReminderNote        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input es el payload de create/update.
type Input struct {
	PetID         string
	DoctorID      string
	AppointmentID string
	RecordDate    time.Time

	Description string
	Treatment   string
	Notes       string

	NextAppointmentDate *time.Time
	NextServiceID       string
	ReminderNote        string
}

// FormResult es lo que devuelve el editor de historia clínica.
// NextAppointmentTime viene aparte ("HH:MM") y se combina con la fecha en Input().
type FormResult struct {
	PetID         string
	DoctorID      string
	AppointmentID string
	RecordDate    time.Time

	Description string
	Treatment   string
	Notes       string

	NextAppointmentDate *time.Time
	NextAppointmentTime string
	NextServiceID       string
	ReminderNote        string
}

func (f FormResult) Input() Input {
	return Input{
		PetID:               f.PetID,
		DoctorID:            f.DoctorID,
		AppointmentID:       f.AppointmentID,
		RecordDate:          f.RecordDate,
		Description:         f.Description,
		Treatment:           f.Treatment,
		Notes:               f.Notes,
		NextAppointmentDate: FollowUpTimestamp(f.NextAppointmentDate, f.NextAppointmentTime),
		NextServiceID:       f.NextServiceID,
		ReminderNote:        f.ReminderNote,
	}
}

// Page es la paginación que acepta el store al listar por mascota.
type Page struct {
	Page  int
	Limit int
}
