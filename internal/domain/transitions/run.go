package transitions

import (
	"context"
	"errors"

	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
)

// ErrEditorClosed lo devuelve un Editor cuando el usuario cierra sin guardar.
var ErrEditorClosed = errors.New("medical history editor closed")

// Prompter es el diálogo de confirmación.
type Prompter interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Editor es el formulario de historia clínica.
type Editor interface {
	Edit(ctx context.Context, prefill Prefill) (medicalhistory.FormResult, error)
}

// Run maneja una transición completa con diálogos síncronos (p.ej. la terminal).
// Los errores de validación y de creación vuelven al editor con el aviso en
// Prefill.Problem; cualquier otro error termina la transición.
func (c *Controller) Run(ctx context.Context, appt appointments.Appointment, requested appointments.Status, prompt Prompter, editor Editor) (View, error) {
	v := c.Request(appt, requested)
	if v.Ignored || v.State != StateAwaitingConfirmation {
		return v, nil
	}

	pending := v
	ok, err := prompt.Confirm(ctx, v.Title, v.Message)
	if err != nil || !ok {
		c.Cancel(appt.ID)
		return aborted(pending), err
	}

	v, err = c.Confirm(ctx, appt.ID)
	for err == nil && !v.Ignored && v.State == StateAwaitingMedicalHistoryInput {
		if err = ctx.Err(); err != nil {
			break
		}

		var form medicalhistory.FormResult
		form, err = editor.Edit(ctx, *v.Prefill)
		if err != nil {
			break
		}

		v, err = c.Submit(ctx, appt.ID, form)
		if err != nil && v.State == StateAwaitingMedicalHistoryInput {
			// el editor sigue abierto: se reintenta con el aviso inline
			err = nil
		}
	}

	if err != nil && c.Session(appt.ID).State == StateAwaitingMedicalHistoryInput {
		c.Cancel(appt.ID)
		if errors.Is(err, ErrEditorClosed) {
			return aborted(pending), nil
		}
	}
	return v, err
}

// aborted es la vista del pedido descartado sin commit; conserva workflow y estados.
func aborted(v View) View {
	return View{
		AppointmentID: v.AppointmentID,
		State:         StateIdle,
		Workflow:      v.Workflow,
		Title:         v.Title,
		Message:       v.Message,
		Current:       v.Current,
		Requested:     v.Requested,
		Aborted:       true,
	}
}
