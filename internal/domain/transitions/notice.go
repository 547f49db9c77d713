package transitions

import (
	"errors"
	"strings"

	"vet-clinic-console/internal/domain/medicalhistory"
)

// Notice traduce un error del flujo al aviso que ve el usuario.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, medicalhistory.ErrValidation):
		detail := strings.TrimPrefix(err.Error(), medicalhistory.ErrValidation.Error())
		detail = strings.TrimLeft(detail, ": ")
		if detail == "" {
			detail = "description and treatment required"
		}
		return "Please complete the medical history: " + detail + "."
	case errors.Is(err, medicalhistory.ErrLookup):
		return "Could not load the medical history. Please retry."
	case errors.Is(err, medicalhistory.ErrNotFound):
		return "The medical history record no longer exists. Please reload and retry."
	case errors.Is(err, ErrCommitFailed):
		// el error del backend se muestra tal cual
		return "Could not update the appointment status (" + err.Error() + "). Please retry."
	default:
		return "Something went wrong. Please retry."
	}
}
