package backend

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vet-clinic-console/internal/adapters/clinicapi"
	mem "vet-clinic-console/internal/adapters/storage/memory"
	pg "vet-clinic-console/internal/adapters/storage/postgres"
	"vet-clinic-console/internal/config"
	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
	"vet-clinic-console/internal/platform/logger"
)

// Backend agrupa los stores de citas e historia clínica de un mismo origen.
type Backend struct {
	Kind         config.Store
	Appointments appointments.Repository
	History      medicalhistory.Store

	db *sql.DB
}

// Open elige el backend según la config: API remota, Postgres o memoria.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}

	kind := cfg.Store()
	switch kind {
	case config.StoreClinicAPI:
		c, err := clinicapi.NewClient(clinicapi.Config{
			BaseURL: cfg.ClinicAPIURL,
			Token:   cfg.ClinicAPIToken,
			Timeout: cfg.ClinicAPITimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("clinic api: %w", err)
		}
		log.Info("using clinic api backend", map[string]any{"url": cfg.ClinicAPIURL})
		return &Backend{
			Kind:         kind,
			Appointments: clinicapi.NewAppointmentsRepo(c),
			History:      clinicapi.NewMedicalHistoryRepo(c),
		}, nil

	case config.StorePostgres:
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("using postgres backend", nil)
		return FromDB(db), nil
	}

	log.Warn("no backend configured, using in-memory store with demo data", nil)
	return Memory(DemoAppointments(time.Now())...), nil
}

func FromDB(db *sql.DB) *Backend {
	return &Backend{
		Kind:         config.StorePostgres,
		Appointments: pg.NewAppointmentsRepo(db),
		History:      pg.NewMedicalHistoryRepo(db),
		db:           db,
	}
}

func Memory(seed ...appointments.Appointment) *Backend {
	return &Backend{
		Kind:         config.StoreMemory,
		Appointments: mem.NewAppointmentRepo(seed...),
		History:      mem.NewMedicalHistoryRepo(),
	}
}

func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// DemoAppointments es la agenda de ejemplo del modo memoria.
func DemoAppointments(now time.Time) []appointments.Appointment {
	day := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, now.Location())
	return []appointments.Appointment{
		{ID: "demo-1", PetID: "pet-1", DoctorID: "doc-1", ServiceID: "checkup", Status: appointments.StatusPending, AppointmentDate: day},
		{ID: "demo-2", PetID: "pet-2", DoctorID: "doc-1", ServiceID: "vaccination", Status: appointments.StatusConfirmed, AppointmentDate: day.Add(2 * time.Hour)},
		{ID: "demo-3", PetID: "pet-3", ServiceID: "surgery", Status: appointments.StatusCompleted, AppointmentDate: day.AddDate(0, 0, -1)},
	}
}
