package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vet-clinic-console/internal/domain/appointments"
)

// AppointmentRepo es el store en memoria para dev y tests; Put carga la agenda.
type AppointmentRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentRepo(seed ...appointments.Appointment) *AppointmentRepo {
	r := &AppointmentRepo{
		byID: make(map[string]appointments.Appointment),
	}
	for _, a := range seed {
		_ = r.Put(a)
	}
	return r
}

// Put crea o reemplaza una cita.
func (r *AppointmentRepo) Put(a appointments.Appointment) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *AppointmentRepo) SetStatus(ctx context.Context, id string, status appointments.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.ErrNotFound
	}
	a.Status = status
	r.byID[id] = a
	return nil
}
