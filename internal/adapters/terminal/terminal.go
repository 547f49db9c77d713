package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"vet-clinic-console/internal/domain/medicalhistory"
	"vet-clinic-console/internal/domain/transitions"
)

const dateLayout = "2006-01-02"

// clearValue borra el valor pre-cargado de un campo opcional.
const clearValue = "-"

// Terminal implementa el diálogo de confirmación y el editor de historia
// clínica sobre líneas de texto (stdin/stdout en el console).
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm pregunta y/N. EOF cuenta como "no".
func (t *Terminal) Confirm(ctx context.Context, title, message string) (bool, error) {
	fmt.Fprintf(t.out, "\n%s\n%s\n", title, message)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprint(t.out, "Confirm? [y/N]: ")
		line, err := t.readLine()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

// Edit pide campo por campo; Enter deja el valor pre-cargado y "-" lo borra.
// EOF cierra el editor sin guardar.
func (t *Terminal) Edit(ctx context.Context, p transitions.Prefill) (medicalhistory.FormResult, error) {
	form := p.Defaults()

	header := "New medical history record"
	if p.IsEdit {
		header = "Edit medical history record"
		if p.Existing == nil {
			header += " (no record found, only the status will change)"
		}
	}
	fmt.Fprintf(t.out, "\n%s for appointment %s\n", header, p.Appointment.ID)
	if p.Problem != "" {
		fmt.Fprintf(t.out, "! %s\n", p.Problem)
	}

	steps := []func() error{
		func() error { return t.askDate(ctx, "Record date", &form.RecordDate) },
		func() error { return t.askText(ctx, "Description", &form.Description) },
		func() error { return t.askText(ctx, "Treatment", &form.Treatment) },
		func() error { return t.askText(ctx, "Notes", &form.Notes) },
		func() error { return t.askOptionalDate(ctx, "Next appointment date", &form.NextAppointmentDate) },
		func() error {
			if form.NextAppointmentDate == nil {
				form.NextAppointmentTime = ""
				return nil
			}
			return t.askText(ctx, "Next appointment time (HH:MM)", &form.NextAppointmentTime)
		},
		func() error { return t.askText(ctx, "Next service", &form.NextServiceID) },
		func() error { return t.askText(ctx, "Reminder note", &form.ReminderNote) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return medicalhistory.FormResult{}, err
		}
	}
	return form, nil
}

func (t *Terminal) askText(ctx context.Context, label string, dst *string) error {
	line, err := t.ask(ctx, label, *dst)
	if err != nil {
		return err
	}
	switch line {
	case "":
	case clearValue:
		*dst = ""
	default:
		*dst = line
	}
	return nil
}

func (t *Terminal) askDate(ctx context.Context, label string, dst *time.Time) error {
	def := ""
	if !dst.IsZero() {
		def = dst.Format(dateLayout)
	}
	for {
		line, err := t.ask(ctx, label+" (YYYY-MM-DD)", def)
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		d, err := time.ParseInLocation(dateLayout, line, time.Local)
		if err != nil {
			fmt.Fprintln(t.out, "Invalid date, use YYYY-MM-DD.")
			continue
		}
		*dst = d
		return nil
	}
}

func (t *Terminal) askOptionalDate(ctx context.Context, label string, dst **time.Time) error {
	def := ""
	if *dst != nil {
		def = (*dst).Format(dateLayout)
	}
	for {
		line, err := t.ask(ctx, label+" (YYYY-MM-DD, - for none)", def)
		if err != nil {
			return err
		}
		switch line {
		case "":
			return nil
		case clearValue:
			*dst = nil
			return nil
		}
		d, err := time.ParseInLocation(dateLayout, line, time.Local)
		if err != nil {
			fmt.Fprintln(t.out, "Invalid date, use YYYY-MM-DD.")
			continue
		}
		*dst = &d
		return nil
	}
}

func (t *Terminal) ask(ctx context.Context, label, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if def != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(t.out, "%s: ", label)
	}

	line, err := t.readLine()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(t.out)
		return "", transitions.ErrEditorClosed
	}
	return line, err
}

// readLine devuelve io.EOF solo si no quedó nada por leer.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
