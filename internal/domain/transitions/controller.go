package transitions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
	"vet-clinic-console/internal/platform/logger"
)

var (
	// ErrCommitFailed envuelve el error de SetStatus; el mensaje original se conserva.
	ErrCommitFailed = errors.New("appointment status update failed")
)

type State string

const (
	StateIdle                        State = "idle"
	StateAwaitingConfirmation        State = "awaiting_confirmation"
	StateAwaitingMedicalHistoryInput State = "awaiting_medical_history_input"
	StateCommitting                  State = "committing"
)

// AppointmentStore es lo único que el controller necesita de las citas.
type AppointmentStore interface {
	SetStatus(ctx context.Context, appointmentID string, status appointments.Status) error
}

// MedicalHistory es la parte del Reconciler que usa el controller.
type MedicalHistory interface {
	FindExistingRecord(ctx context.Context, petID string, appointmentDate time.Time) (*medicalhistory.Record, error)
	Create(ctx context.Context, in medicalhistory.Input) (medicalhistory.Record, error)
	Update(ctx context.Context, historyID string, in medicalhistory.Input) (medicalhistory.Record, error)
	Delete(ctx context.Context, historyID string) error
}

// Request es un cambio de estado pedido por el usuario, vive hasta el commit o el cancel.
type Request struct {
	Appointment appointments.Appointment
	Current     appointments.Status
	Requested   appointments.Status
	Decision

	// Registro resuelto para edit/delete (nil si la mascota no tiene).
	Existing *medicalhistory.Record
}

// Prefill es lo que recibe el editor de historia clínica.
type Prefill struct {
	Appointment appointments.Appointment
	Existing    *medicalhistory.Record
	IsEdit      bool

	// Problem es el error a mostrar inline (validación, reintento).
	Problem string
}

// Defaults arma el formulario inicial: desde el registro existente o desde la cita.
// Edit sin registro abre en blanco.
func (p Prefill) Defaults() medicalhistory.FormResult {
	if p.Existing != nil {
		e := p.Existing
		return medicalhistory.FormResult{
			PetID:               e.PetID,
			DoctorID:            e.DoctorID,
			AppointmentID:       e.AppointmentID,
			RecordDate:          e.RecordDate,
			Description:         e.Description,
			Treatment:           e.Treatment,
			Notes:               e.Notes,
			NextAppointmentDate: e.NextAppointmentDate,
			NextAppointmentTime: timeOfDay(e.NextAppointmentDate),
			NextServiceID:       e.NextServiceID,
			ReminderNote:        e.ReminderNote,
		}
	}

	a := p.Appointment
	if p.IsEdit {
		return medicalhistory.FormResult{AppointmentID: a.ID}
	}
	return medicalhistory.FormResult{
		PetID:         a.PetID,
		DoctorID:      a.DoctorID,
		AppointmentID: a.ID,
		RecordDate:    a.AppointmentDate,
		NextServiceID: a.ServiceID,
	}
}

// View es la foto de la sesión de una cita después de cada evento.
type View struct {
	AppointmentID string
	State         State

	Workflow  Workflow
	Title     string
	Message   string
	Current   appointments.Status
	Requested appointments.Status

	// Solo en StateAwaitingMedicalHistoryInput.
	Prefill *Prefill

	// Ignored: el evento se descartó (guard, duplicado, sin sesión).
	Ignored bool
	// Committed: el nuevo estado quedó persistido con este evento.
	Committed bool
	// Aborted: el usuario rechazó la confirmación o cerró el editor.
	Aborted bool
}

type session struct {
	state   State
	req     Request
	problem string
}

func (s *session) view(appointmentID string) View {
	v := View{
		AppointmentID: appointmentID,
		State:         s.state,
		Workflow:      s.req.Workflow,
		Title:         s.req.Title,
		Message:       s.req.Message,
		Current:       s.req.Current,
		Requested:     s.req.Requested,
	}
	if s.state == StateAwaitingMedicalHistoryInput {
		v.Prefill = &Prefill{
			Appointment: s.req.Appointment,
			Existing:    s.req.Existing,
			IsEdit:      s.req.Workflow == WorkflowEditMedicalHistory,
			Problem:     s.problem,
		}
	}
	return v
}

type Options struct {
	Cooldown time.Duration
	Logger   logger.Logger
}

// Controller es la única entrada para "pasar la cita X al estado Y".
// Coordina confirmación, editor de historia clínica y commit del estado.
type Controller struct {
	appts   AppointmentStore
	history MedicalHistory
	guard   *Guard
	log     logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewController(appts AppointmentStore, history MedicalHistory, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		appts:    appts,
		history:  history,
		guard:    NewGuard(opts.Cooldown),
		log:      log.With(map[string]any{"component": "transitions"}),
		sessions: make(map[string]*session),
	}
}

// Request abre la confirmación para pasar appt a requested.
// Mismo estado: no-op. Commit en curso o mismo par en cooldown: se ignora.
// Un pedido pendiente (no en commit) de la misma cita se reemplaza.
func (c *Controller) Request(appt appointments.Appointment, requested appointments.Status) View {
	decision, ok := Decide(appt.Status, requested)
	if !ok {
		return View{AppointmentID: appt.ID, State: StateIdle, Current: appt.Status, Requested: requested}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[appt.ID]; ok && s.state == StateCommitting {
		return c.ignoredLocked(appt.ID)
	}
	if c.guard.Blocked(appt.ID, requested) {
		c.log.Debug("duplicate status change dropped", map[string]any{
			"appointment_id": appt.ID,
			"to":             requested.String(),
		})
		return c.ignoredLocked(appt.ID)
	}

	s := &session{
		state: StateAwaitingConfirmation,
		req: Request{
			Appointment: appt,
			Current:     appt.Status,
			Requested:   requested,
			Decision:    decision,
		},
	}
	c.sessions[appt.ID] = s
	return s.view(appt.ID)
}

// Confirm acepta la confirmación pendiente.
func (c *Controller) Confirm(ctx context.Context, appointmentID string) (View, error) {
	c.mu.Lock()
	s, ok := c.sessions[appointmentID]
	if !ok || s.state != StateAwaitingConfirmation {
		v := c.ignoredLocked(appointmentID)
		c.mu.Unlock()
		return v, nil
	}
	req := s.req

	// create no toca nada todavía: solo abre el editor
	if req.Workflow == WorkflowCreateMedicalHistory {
		s.state = StateAwaitingMedicalHistoryInput
		v := s.view(appointmentID)
		c.mu.Unlock()
		return v, nil
	}

	if !c.guard.Begin(appointmentID, req.Requested) {
		v := c.ignoredLocked(appointmentID)
		c.mu.Unlock()
		return v, nil
	}
	s.state = StateCommitting
	c.mu.Unlock()

	var committed, keep bool
	defer func() {
		if !keep {
			c.settle(appointmentID, req, committed)
		}
	}()

	if req.Workflow == WorkflowEditMedicalHistory {
		existing, err := c.history.FindExistingRecord(ctx, req.Appointment.PetID, req.Appointment.AppointmentDate)
		if err != nil {
			// sin datos no hay nada que editar: se aborta con el estado intacto
			return c.result(appointmentID, req, err)
		}
		keep = true
		req.Existing = existing
		return c.awaitInput(appointmentID, req, ""), nil
	}

	var err error
	if req.Workflow == WorkflowDeleteMedicalHistory {
		err = c.deleteHistory(ctx, req)
	}
	if err == nil {
		err = c.commitStatus(ctx, req)
	}
	committed = err == nil
	return c.result(appointmentID, req, err)
}

// Cancel cierra la confirmación o el editor. Un commit en curso no se cancela.
func (c *Controller) Cancel(appointmentID string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[appointmentID]
	if ok && s.state == StateCommitting {
		return c.ignoredLocked(appointmentID)
	}
	delete(c.sessions, appointmentID)
	return View{AppointmentID: appointmentID, State: StateIdle}
}

// Submit recibe el formulario del editor: escribe la historia clínica y
// recién después persiste el estado.
func (c *Controller) Submit(ctx context.Context, appointmentID string, form medicalhistory.FormResult) (View, error) {
	c.mu.Lock()
	s, ok := c.sessions[appointmentID]
	if !ok || s.state != StateAwaitingMedicalHistoryInput {
		v := c.ignoredLocked(appointmentID)
		c.mu.Unlock()
		return v, nil
	}
	req := s.req
	if !c.guard.Begin(appointmentID, req.Requested) {
		v := c.ignoredLocked(appointmentID)
		c.mu.Unlock()
		return v, nil
	}
	s.state = StateCommitting
	c.mu.Unlock()

	var committed, keep bool
	defer func() {
		if !keep {
			c.settle(appointmentID, req, committed)
		}
	}()

	switch req.Workflow {
	case WorkflowCreateMedicalHistory:
		form.AppointmentID = req.Appointment.ID
		if _, err := c.history.Create(ctx, form.Input()); err != nil {
			// el estado no cambió: el editor queda abierto para reintentar
			keep = true
			return c.reopenEditor(appointmentID, req, err)
		}

	case WorkflowEditMedicalHistory:
		if req.Existing != nil {
			// el vínculo del registro con su cita no se toca
			form.AppointmentID = req.Existing.AppointmentID
			if _, err := c.history.Update(ctx, req.Existing.ID, form.Input()); err != nil {
				if errors.Is(err, medicalhistory.ErrValidation) {
					keep = true
					return c.reopenEditor(appointmentID, req, err)
				}
				return c.result(appointmentID, req, err)
			}
		}
	}

	err := c.commitStatus(ctx, req)
	committed = err == nil
	return c.result(appointmentID, req, err)
}

// Session devuelve el estado actual de la cita.
func (c *Controller) Session(appointmentID string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[appointmentID]
	if !ok {
		return View{AppointmentID: appointmentID, State: StateIdle}
	}
	return s.view(appointmentID)
}

// awaitInput deja la sesión en el editor y libera el guard sin cooldown.
func (c *Controller) awaitInput(appointmentID string, req Request, problem string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.guard.Done(appointmentID, req.Requested, false)
	s, ok := c.sessions[appointmentID]
	if !ok {
		s = &session{}
		c.sessions[appointmentID] = s
	}
	s.req = req
	s.state = StateAwaitingMedicalHistoryInput
	s.problem = problem
	return s.view(appointmentID)
}

func (c *Controller) reopenEditor(appointmentID string, req Request, cause error) (View, error) {
	c.log.Warn("medical history write rejected", map[string]any{
		"appointment_id": appointmentID,
		"workflow":       string(req.Workflow),
		"err":            cause,
	})
	return c.awaitInput(appointmentID, req, Notice(cause)), cause
}

// deleteHistory: sin registro no hay nada que limpiar; si la búsqueda falla,
// se sigue solo con el cambio de estado.
func (c *Controller) deleteHistory(ctx context.Context, req Request) error {
	existing, err := c.history.FindExistingRecord(ctx, req.Appointment.PetID, req.Appointment.AppointmentDate)
	if err != nil {
		c.log.Warn("medical history lookup failed, cancelling without cleanup", map[string]any{
			"appointment_id": req.Appointment.ID,
			"err":            err,
		})
		return nil
	}
	if existing == nil {
		return nil
	}
	return c.history.Delete(ctx, existing.ID)
}

func (c *Controller) commitStatus(ctx context.Context, req Request) error {
	if err := c.appts.SetStatus(ctx, req.Appointment.ID, req.Requested); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return nil
}

// settle deja la cita en idle y libera el guard; corre en defer, también con panic.
func (c *Controller) settle(appointmentID string, req Request, committed bool) {
	c.mu.Lock()
	delete(c.sessions, appointmentID)
	c.mu.Unlock()

	c.guard.Done(appointmentID, req.Requested, committed)
}

func (c *Controller) result(appointmentID string, req Request, err error) (View, error) {
	fields := map[string]any{
		"appointment_id": appointmentID,
		"workflow":       string(req.Workflow),
		"from":           req.Current.String(),
		"to":             req.Requested.String(),
	}

	v := View{
		AppointmentID: appointmentID,
		State:         StateIdle,
		Workflow:      req.Workflow,
		Current:       req.Current,
		Requested:     req.Requested,
	}
	if err != nil {
		fields["err"] = err
		c.log.Error("status transition failed", fields)
		return v, err
	}

	c.log.Info("status transition committed", fields)
	v.Committed = true
	return v, nil
}

func (c *Controller) ignoredLocked(appointmentID string) View {
	v := View{AppointmentID: appointmentID, State: StateIdle}
	if s, ok := c.sessions[appointmentID]; ok {
		v = s.view(appointmentID)
	}
	v.Ignored = true
	return v
}

func timeOfDay(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}
