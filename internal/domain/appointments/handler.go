package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/appointments/{appointmentID}", getAppointmentHandler(svc))
}

// AppointmentResponse es la cita tal como la ve el console.
type AppointmentResponse struct {
	ID              string    `json:"id"`
	PetID           string    `json:"pet_id"`
	DoctorID        string    `json:"doctor_id,omitempty"`
	ServiceID       string    `json:"service_id,omitempty"`
	Status          Status    `json:"status" swaggertype:"string" enums:"pending,confirmed,completed,cancelled"`
	StatusLabel     string    `json:"status_label"`
	AppointmentDate time.Time `json:"appointment_date"`
}

// getAppointmentHandler godoc
// @Summary Obtener cita
// @Description Devuelve la cita con su estado actual.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} AppointmentResponse
// @Failure 404 {string} string "appointment not found"
// @Failure 502 {string} string "upstream error"
// @Router /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
				http.Error(w, "appointment not found", http.StatusNotFound)
			default:
				http.Error(w, "upstream error", http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

// ToResponse lo reutiliza el handler de transiciones para el pre-fill del editor.
func ToResponse(a Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PetID:           a.PetID,
		DoctorID:        a.DoctorID,
		ServiceID:       a.ServiceID,
		Status:          a.Status,
		StatusLabel:     a.Status.Label(),
		AppointmentDate: a.AppointmentDate,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
