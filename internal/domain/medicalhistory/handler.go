package medicalhistory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, rec *Reconciler) {
	r.Get("/pets/{petID}/medical-history", listByPetHandler(rec))
	r.Get("/medical-history/follow-up", followUpHandler())
}

// RecordResponse es un registro de historia clínica devuelto por la API.
type RecordResponse struct {
	ID                  string     `json:"id"`
	PetID               string     `json:"pet_id"`
	DoctorID            string     `json:"doctor_id,omitempty"`
	AppointmentID       string     `json:"appointment_id,omitempty"`
	RecordDate          time.Time  `json:"record_date"`
	Description         string     `json:"description"`
	Treatment           string     `json:"treatment"`
	Notes               string     `json:"notes,omitempty"`
	NextAppointmentDate *time.Time `json:"next_appointment_date,omitempty"`
	NextServiceID       string     `json:"next_service_id,omitempty"`
	ReminderNote        string     `json:"reminder_note,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type followUpResponse struct {
	NextAppointmentDate *time.Time `json:"next_appointment_date"`
}

// listByPetHandler godoc
// @Summary Listar historia clínica de una mascota
// @Description Lista los registros de historia clínica de la mascota, del más reciente al más antiguo.
// @Tags medical-history
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param page query int false "Página (desde 1)"
// @Param limit query int false "Tamaño de página (1-100). Por defecto 100"
// @Success 200 {array} RecordResponse
// @Failure 400 {string} string "pet id required"
// @Failure 502 {string} string "medical history lookup failed"
// @Router /pets/{petID}/medical-history [get]
func listByPetHandler(rec *Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := Page{Page: 1, Limit: LookupLimit}
		if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
			page.Page = v
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= LookupLimit {
			page.Limit = v
		}

		items, err := rec.ListByPet(r.Context(), chi.URLParam(r, "petID"), page)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				http.Error(w, "pet id required", http.StatusBadRequest)
				return
			}
			http.Error(w, "medical history lookup failed", http.StatusBadGateway)
			return
		}

		out := make([]RecordResponse, 0, len(items))
		for _, it := range items {
			out = append(out, ToResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// followUpHandler godoc
// @Summary Calcular fecha de seguimiento
// @Description Combina fecha (YYYY-MM-DD) y hora opcional (HH:MM, por defecto 09:00) en hora local del servidor.
// @Tags medical-history
// @Produce json
// @Param date query string false "Fecha de seguimiento YYYY-MM-DD"
// @Param time query string false "Hora HH:MM"
// @Success 200 {object} followUpResponse
// @Failure 400 {string} string "date must be YYYY-MM-DD"
// @Router /medical-history/follow-up [get]
func followUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var date *time.Time
		if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
			d, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &d
		}

		writeJSON(w, http.StatusOK, followUpResponse{
			NextAppointmentDate: FollowUpTimestamp(date, r.URL.Query().Get("time")),
		})
	}
}

func ToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:                  r.ID,
		PetID:               r.PetID,
		DoctorID:            r.DoctorID,
		AppointmentID:       r.AppointmentID,
		RecordDate:          r.RecordDate,
		Description:         r.Description,
		Treatment:           r.Treatment,
		Notes:               r.Notes,
		NextAppointmentDate: r.NextAppointmentDate,
		NextServiceID:       r.NextServiceID,
		ReminderNote:        r.ReminderNote,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
