package transitions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"

	"github.com/go-chi/chi/v5"
)

// AppointmentReader carga la cita antes de abrir la confirmación.
type AppointmentReader interface {
	GetByID(ctx context.Context, id string) (appointments.Appointment, error)
}

func RegisterRoutes(r chi.Router, ctrl *Controller, appts AppointmentReader) {
	r.Route("/appointments/{appointmentID}/transition", func(tr chi.Router) {
		tr.Get("/", getTransitionHandler(ctrl))
		tr.Post("/", requestTransitionHandler(ctrl, appts))
		tr.Post("/confirm", confirmTransitionHandler(ctrl))
		tr.Post("/cancel", cancelTransitionHandler(ctrl))
		tr.Post("/medical-history", submitMedicalHistoryHandler(ctrl))
	})
}

// transitionRequest pide el cambio de estado; status acepta código o número.
type transitionRequest struct {
	Status *appointments.Status `json:"status" swaggertype:"string" enums:"pending,confirmed,completed,cancelled"`
}

// medicalHistoryRequest es el formulario del editor. Campo ausente = valor pre-cargado.
type medicalHistoryRequest struct {
	PetID               *string `json:"pet_id"`
	DoctorID            *string `json:"doctor_id"`
	RecordDate          *string `json:"record_date"` // YYYY-MM-DD o RFC3339
	Description         *string `json:"description"`
	Treatment           *string `json:"treatment"`
	Notes               *string `json:"notes"`
	NextAppointmentDate *string `json:"next_appointment_date"` // YYYY-MM-DD, "" = sin seguimiento
	NextAppointmentTime *string `json:"next_appointment_time"` // HH:MM
	NextServiceID       *string `json:"next_service_id"`
	ReminderNote        *string `json:"reminder_note"`
}

type prefillResponse struct {
	Appointment    appointments.AppointmentResponse `json:"appointment"`
	ExistingRecord *medicalhistory.RecordResponse   `json:"existing_record"`
	IsEdit         bool                             `json:"is_edit"`
	Problem        string                           `json:"problem,omitempty"`
	Defaults       formResponse                     `json:"defaults"`
}

type formResponse struct {
	PetID               string `json:"pet_id"`
	DoctorID            string `json:"doctor_id,omitempty"`
	AppointmentID       string `json:"appointment_id"`
	RecordDate          string `json:"record_date,omitempty"`
	Description         string `json:"description"`
	Treatment           string `json:"treatment"`
	Notes               string `json:"notes,omitempty"`
	NextAppointmentDate string `json:"next_appointment_date,omitempty"`
	NextAppointmentTime string `json:"next_appointment_time,omitempty"`
	NextServiceID       string `json:"next_service_id,omitempty"`
	ReminderNote        string `json:"reminder_note,omitempty"`
}

// transitionResponse es el estado de la sesión de cambio de estado de una cita.
type transitionResponse struct {
	AppointmentID   string           `json:"appointment_id"`
	State           State            `json:"state" enums:"idle,awaiting_confirmation,awaiting_medical_history_input,committing"`
	Workflow        Workflow         `json:"workflow,omitempty" enums:"direct_update,create_medical_history,edit_medical_history,delete_medical_history"`
	Title           string           `json:"title,omitempty"`
	Message         string           `json:"message,omitempty"`
	CurrentStatus   string           `json:"current_status,omitempty"`
	RequestedStatus string           `json:"requested_status,omitempty"`
	Prefill         *prefillResponse `json:"prefill,omitempty"`
	Ignored         bool             `json:"ignored"`
	Committed       bool             `json:"committed"`
}

type failureResponse struct {
	Error      string             `json:"error"`
	Transition transitionResponse `json:"transition"`
}

// getTransitionHandler godoc
// @Summary Estado del cambio de estado en curso
// @Description Devuelve la sesión de transición de la cita (idle si no hay ninguna).
// @Tags transitions
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} transitionResponse
// @Router /appointments/{appointmentID}/transition [get]
func getTransitionHandler(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toTransitionResponse(ctrl.Session(chi.URLParam(r, "appointmentID"))))
	}
}

// requestTransitionHandler godoc
// @Summary Pedir cambio de estado
// @Description Abre la confirmación para el nuevo estado. Mismo estado: no-op. Pedidos duplicados dentro del cooldown o con un commit en curso se ignoran (ignored=true).
// @Tags transitions
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param payload body transitionRequest true "Estado pedido"
// @Success 200 {object} transitionResponse
// @Failure 400 {string} string "invalid json / invalid status / status required"
// @Failure 404 {string} string "appointment not found"
// @Failure 502 {string} string "upstream error"
// @Router /appointments/{appointmentID}/transition [post]
func requestTransitionHandler(ctrl *Controller, appts AppointmentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, appointments.ErrInvalidInput) {
				http.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Status == nil {
			http.Error(w, "status required", http.StatusBadRequest)
			return
		}

		appt, err := appts.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			switch {
			case errors.Is(err, appointments.ErrNotFound), errors.Is(err, appointments.ErrInvalidInput):
				http.Error(w, "appointment not found", http.StatusNotFound)
			default:
				http.Error(w, "upstream error", http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusOK, toTransitionResponse(ctrl.Request(appt, *req.Status)))
	}
}

// confirmTransitionHandler godoc
// @Summary Confirmar cambio de estado
// @Description Acepta la confirmación. direct_update y delete_medical_history persisten en el acto; create/edit abren el editor de historia clínica.
// @Tags transitions
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} transitionResponse
// @Failure 404 {object} failureResponse "registro eliminado entre búsqueda y update"
// @Failure 502 {object} failureResponse "error del backend"
// @Router /appointments/{appointmentID}/transition/confirm [post]
func confirmTransitionHandler(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := ctrl.Confirm(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeFailure(w, v, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransitionResponse(v))
	}
}

// cancelTransitionHandler godoc
// @Summary Cancelar cambio de estado
// @Description Cierra la confirmación o el editor sin tocar nada. Un commit en curso no se cancela.
// @Tags transitions
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} transitionResponse
// @Router /appointments/{appointmentID}/transition/cancel [post]
func cancelTransitionHandler(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toTransitionResponse(ctrl.Cancel(chi.URLParam(r, "appointmentID"))))
	}
}

// submitMedicalHistoryHandler godoc
// @Summary Enviar historia clínica
// @Description Guarda la historia clínica (create o update) y recién después persiste el nuevo estado. Con error de validación el editor queda abierto.
// @Tags transitions
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param payload body medicalHistoryRequest true "Formulario; campos ausentes toman el valor pre-cargado"
// @Success 200 {object} transitionResponse
// @Failure 400 {object} failureResponse "validación"
// @Failure 404 {object} failureResponse "registro eliminado"
// @Failure 502 {object} failureResponse "error del backend"
// @Router /appointments/{appointmentID}/transition/medical-history [post]
func submitMedicalHistoryHandler(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appointmentID := chi.URLParam(r, "appointmentID")

		current := ctrl.Session(appointmentID)
		if current.State != StateAwaitingMedicalHistoryInput || current.Prefill == nil {
			current.Ignored = true
			writeJSON(w, http.StatusOK, toTransitionResponse(current))
			return
		}

		var req medicalHistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		form, err := req.apply(current.Prefill.Defaults())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		v, err := ctrl.Submit(r.Context(), appointmentID, form)
		if err != nil {
			writeFailure(w, v, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransitionResponse(v))
	}
}

func (req medicalHistoryRequest) apply(form medicalhistory.FormResult) (medicalhistory.FormResult, error) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&form.PetID, req.PetID)
	set(&form.DoctorID, req.DoctorID)
	set(&form.Description, req.Description)
	set(&form.Treatment, req.Treatment)
	set(&form.Notes, req.Notes)
	set(&form.NextAppointmentTime, req.NextAppointmentTime)
	set(&form.NextServiceID, req.NextServiceID)
	set(&form.ReminderNote, req.ReminderNote)

	if req.RecordDate != nil {
		t, err := parseDate(*req.RecordDate)
		if err != nil {
			return form, errors.New("record_date must be YYYY-MM-DD or RFC3339")
		}
		form.RecordDate = derefTime(t)
	}
	if req.NextAppointmentDate != nil {
		t, err := parseDate(*req.NextAppointmentDate)
		if err != nil {
			return form, errors.New("next_appointment_date must be YYYY-MM-DD or RFC3339")
		}
		form.NextAppointmentDate = t
	}
	return form, nil
}

// parseDate: "" = sin fecha; YYYY-MM-DD se interpreta en hora local.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func writeFailure(w http.ResponseWriter, v View, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, medicalhistory.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, medicalhistory.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, medicalhistory.ErrLookup),
		errors.Is(err, medicalhistory.ErrStore),
		errors.Is(err, ErrCommitFailed):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, failureResponse{
		Error:      Notice(err),
		Transition: toTransitionResponse(v),
	})
}

func toTransitionResponse(v View) transitionResponse {
	out := transitionResponse{
		AppointmentID: v.AppointmentID,
		State:         v.State,
		Workflow:      v.Workflow,
		Title:         v.Title,
		Message:       v.Message,
		Ignored:       v.Ignored,
		Committed:     v.Committed,
	}
	if v.Workflow != "" {
		out.CurrentStatus = v.Current.String()
		out.RequestedStatus = v.Requested.String()
	}

	if p := v.Prefill; p != nil {
		pr := &prefillResponse{
			Appointment: appointments.ToResponse(p.Appointment),
			IsEdit:      p.IsEdit,
			Problem:     p.Problem,
			Defaults:    toFormResponse(p.Defaults()),
		}
		if p.Existing != nil {
			rec := medicalhistory.ToResponse(*p.Existing)
			pr.ExistingRecord = &rec
		}
		out.Prefill = pr
	}
	return out
}

func toFormResponse(f medicalhistory.FormResult) formResponse {
	out := formResponse{
		PetID:               f.PetID,
		DoctorID:            f.DoctorID,
		AppointmentID:       f.AppointmentID,
		Description:         f.Description,
		Treatment:           f.Treatment,
		Notes:               f.Notes,
		NextAppointmentTime: f.NextAppointmentTime,
		NextServiceID:       f.NextServiceID,
		ReminderNote:        f.ReminderNote,
	}
	if !f.RecordDate.IsZero() {
		out.RecordDate = f.RecordDate.Format("2006-01-02")
	}
	if f.NextAppointmentDate != nil {
		out.NextAppointmentDate = f.NextAppointmentDate.Format("2006-01-02")
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
