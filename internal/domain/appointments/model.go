package appointments

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status es el ciclo de vida de una cita. Los códigos numéricos son los del backend.
// @Enum pending, confirmed, completed, cancelled
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusCompleted
	StatusCancelled
)

var statusCodes = map[Status]string{
	StatusPending:   "pending",
	StatusConfirmed: "confirmed",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

func (s Status) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// String devuelve el código en minúsculas ("completed").
func (s Status) String() string {
	if c, ok := statusCodes[s]; ok {
		return c
	}
	return "unknown"
}

// Label es el texto que se muestra al usuario ("Completed").
func (s Status) Label() string {
	c := s.String()
	return strings.ToUpper(c[:1]) + c[1:]
}

// ParseStatus acepta el código ("Completed", "completed") o el número ("2").
func ParseStatus(raw string) (Status, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "canceled" {
		raw = "cancelled"
	}
	for s, c := range statusCodes {
		if c == raw {
			return s, nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && Status(n).Valid() {
		return Status(n), nil
	}
	return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Status(n).Valid() {
			return fmt.Errorf("%w: unknown status %d", ErrInvalidInput, n)
		}
		*s = Status(n)
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: status must be a label or a number", ErrInvalidInput)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Appointment es la vista mínima de una cita que necesita el flujo de estados.
// Doctor y servicio son opcionales ("" = sin asignar).
type Appointment struct {
	ID        string
	PetID     string
	DoctorID  string
	ServiceID string

	Status          Status
	AppointmentDate time.Time
}
