package medicalhistory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation error")
	ErrLookup     = errors.New("medical history lookup failed")
	ErrNotFound   = errors.New("medical history record not found")
	ErrStore      = errors.New("medical history store error")
)

// LookupLimit es cuántos registros de la mascota se traen para emparejar con la cita.
const LookupLimit = 100

// Reconciler busca, crea, actualiza y borra la historia clínica ligada a una cita.
type Reconciler struct {
	store Store
	now   func() time.Time
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{
		store: store,
		now:   time.Now,
	}
}

// FindExistingRecord devuelve el registro de petID que corresponde a la cita:
// el que tiene RecordDate el mismo día calendario que appointmentDate o, si ninguno
// coincide, el primero que devuelve el store (el más reciente). nil si no hay registros.
func (r *Reconciler) FindExistingRecord(ctx context.Context, petID string, appointmentDate time.Time) (*Record, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	items, err := r.store.ListByPet(ctx, petID, Page{Page: 1, Limit: LookupLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	for i := range items {
		if sameDay(items[i].RecordDate, appointmentDate) {
			rec := items[i]
			return &rec, nil
		}
	}

	// TODO: el fallback depende de que el backend ordene estable por creación; pedir created_at en el contrato remoto.
	rec := items[0]
	return &rec, nil
}

func (r *Reconciler) ListByPet(ctx context.Context, petID string, page Page) ([]Record, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, fmt.Errorf("%w: pet id required", ErrValidation)
	}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.Limit <= 0 || page.Limit > LookupLimit {
		page.Limit = LookupLimit
	}

	items, err := r.store.ListByPet(ctx, petID, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	return items, nil
}

func (r *Reconciler) Create(ctx context.Context, in Input) (Record, error) {
	if err := in.Validate(); err != nil {
		return Record{}, err
	}
	if in.RecordDate.IsZero() {
		return Record{}, fmt.Errorf("%w: record date is required", ErrValidation)
	}
	if strings.TrimSpace(in.PetID) == "" {
		return Record{}, fmt.Errorf("%w: pet id is required", ErrValidation)
	}

	now := r.now()
	rec := fromInput(in)
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return created, nil
}

func (r *Reconciler) Update(ctx context.Context, historyID string, in Input) (Record, error) {
	historyID = strings.TrimSpace(historyID)
	if historyID == "" {
		return Record{}, ErrNotFound
	}
	if err := in.Validate(); err != nil {
		return Record{}, err
	}

	rec := fromInput(in)
	rec.ID = historyID
	rec.UpdatedAt = r.now()

	updated, err := r.store.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return updated, nil
}

// Delete es idempotente: un registro que ya no existe cuenta como borrado.
func (r *Reconciler) Delete(ctx context.Context, historyID string) error {
	historyID = strings.TrimSpace(historyID)
	if historyID == "" {
		return nil
	}

	if err := r.store.Delete(ctx, historyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

// Validate exige descripción y tratamiento no vacíos.
func (in Input) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(in.Treatment) == "" {
		missing = append(missing, "treatment")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, " and "))
	}
	return nil
}

func fromInput(in Input) Record {
	return Record{
		PetID:               strings.TrimSpace(in.PetID),
		DoctorID:            strings.TrimSpace(in.DoctorID),
		AppointmentID:       strings.TrimSpace(in.AppointmentID),
		RecordDate:          in.RecordDate,
		Description:         strings.TrimSpace(in.Description),
		Treatment:           strings.TrimSpace(in.Treatment),
		Notes:               strings.TrimSpace(in.Notes),
		NextAppointmentDate: in.NextAppointmentDate,
		NextServiceID:       strings.TrimSpace(in.NextServiceID),
		ReminderNote:        strings.TrimSpace(in.ReminderNote),
	}
}

// sameDay compara el día calendario de cada fecha en su propia zona: RecordDate es
// una fecha sin hora y convertirla a la zona de la cita puede correrla un día.
func sameDay(recordDate, appointmentDate time.Time) bool {
	if recordDate.IsZero() || appointmentDate.IsZero() {
		return false
	}
	ry, rm, rd := recordDate.Date()
	ay, am, ad := appointmentDate.Date()
	return ry == ay && rm == am && rd == ad
}
