package transitions

import (
	"fmt"

	"vet-clinic-console/internal/domain/appointments"
)

// Workflow es el efecto sobre la historia clínica que exige una transición.
type Workflow string

const (
	WorkflowDirectUpdate         Workflow = "direct_update"
	WorkflowCreateMedicalHistory Workflow = "create_medical_history"
	WorkflowEditMedicalHistory   Workflow = "edit_medical_history"
	WorkflowDeleteMedicalHistory Workflow = "delete_medical_history"
)

// NeedsEditor indica si el workflow pasa por el editor de historia clínica.
func (w Workflow) NeedsEditor() bool {
	return w == WorkflowCreateMedicalHistory || w == WorkflowEditMedicalHistory
}

// Decision es lo que hay que confirmar y qué hacer después.
type Decision struct {
	Workflow Workflow
	Title    string
	Message  string
}

// Decide mapea (actual, pedido) a workflow + texto de confirmación.
// ok=false cuando los estados son iguales: no hay nada que confirmar.
// Es total: estados desconocidos caen en el mensaje genérico.
func Decide(current, requested appointments.Status) (Decision, bool) {
	if current == requested {
		return Decision{}, false
	}

	switch {
	case requested == appointments.StatusCompleted:
		return Decision{
			Workflow: WorkflowCreateMedicalHistory,
			Title:    "Complete appointment",
			Message: fmt.Sprintf(
				"Mark this appointment as %s? You will be asked to enter the medical history for this visit next.",
				requested.Label(),
			),
		}, true

	case current == appointments.StatusCompleted && requested == appointments.StatusCancelled:
		return Decision{
			Workflow: WorkflowDeleteMedicalHistory,
			Title:    "Cancel completed appointment",
			Message: fmt.Sprintf(
				"Change status from %s to %s? The medical history record linked to this visit will be deleted.",
				current.Label(), requested.Label(),
			),
		}, true

	case current == appointments.StatusCompleted:
		return Decision{
			Workflow: WorkflowEditMedicalHistory,
			Title:    "Reopen completed appointment",
			Message: fmt.Sprintf(
				"Change status from %s to %s? You can review and update the medical history record for this visit.",
				current.Label(), requested.Label(),
			),
		}, true
	}

	return Decision{
		Workflow: WorkflowDirectUpdate,
		Title:    "Change appointment status",
		Message:  fmt.Sprintf("Change status from %s to %s?", current.Label(), requested.Label()),
	}, true
}
