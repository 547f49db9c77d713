package transitions

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
)

// -------------------------
// Fakes
// -------------------------

// recorder guarda el orden de las escrituras de citas e historia clínica juntas.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeAppts struct {
	rec *recorder
	err error

	// gate corre antes de escribir; sirve para dejar un commit colgado.
	gate func(appointmentID string)

	mu       sync.Mutex
	statuses map[string]appointments.Status
	calls    int
}

func (a *fakeAppts) SetStatus(ctx context.Context, appointmentID string, status appointments.Status) error {
	a.rec.add("set_status:" + status.String())
	if a.gate != nil {
		a.gate(appointmentID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return a.err
	}
	a.statuses[appointmentID] = status
	return nil
}

func (a *fakeAppts) setCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type fakeStore struct {
	rec *recorder

	mu    sync.Mutex
	items []medicalhistory.Record

	listErr   error
	createErr error
	deleteErr error
}

func (s *fakeStore) ListByPet(ctx context.Context, petID string, page medicalhistory.Page) ([]medicalhistory.Record, error) {
	s.rec.add("list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]medicalhistory.Record, 0)
	for _, r := range s.items {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, r medicalhistory.Record) (medicalhistory.Record, error) {
	s.rec.add("create")
	if s.createErr != nil {
		return medicalhistory.Record{}, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]medicalhistory.Record{r}, s.items...)
	return r, nil
}

func (s *fakeStore) Update(ctx context.Context, r medicalhistory.Record) (medicalhistory.Record, error) {
	s.rec.add("update:" + r.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == r.ID {
			r.CreatedAt = s.items[i].CreatedAt
			s.items[i] = r
			return r, nil
		}
	}
	return medicalhistory.Record{}, medicalhistory.ErrNotFound
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.rec.add("delete:" + id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return medicalhistory.ErrNotFound
}

func (s *fakeStore) snapshot() []medicalhistory.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]medicalhistory.Record(nil), s.items...)
}

type harness struct {
	ctrl  *Controller
	appts *fakeAppts
	store *fakeStore
	rec   *recorder
}

func newHarness(records ...medicalhistory.Record) *harness {
	rec := &recorder{}
	appts := &fakeAppts{rec: rec, statuses: map[string]appointments.Status{}}
	store := &fakeStore{rec: rec, items: records}
	ctrl := NewController(appts, medicalhistory.NewReconciler(store), Options{Cooldown: time.Second})
	return &harness{ctrl: ctrl, appts: appts, store: store, rec: rec}
}

var visitDate = time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)

func testAppointment(id string, status appointments.Status) appointments.Appointment {
	return appointments.Appointment{
		ID:              id,
		PetID:           "p1",
		DoctorID:        "d1",
		ServiceID:       "s1",
		Status:          status,
		AppointmentDate: visitDate,
	}
}

func assertCalls(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	got := rec.list()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
}

// -------------------------
// Workflows
// -------------------------

func TestController_CompleteCreatesHistoryBeforeStatus(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v := h.ctrl.Request(testAppointment("a1", appointments.StatusConfirmed), appointments.StatusCompleted)
	if v.State != StateAwaitingConfirmation || v.Workflow != WorkflowCreateMedicalHistory {
		t.Fatalf("unexpected view: %+v", v)
	}

	v, err := h.ctrl.Confirm(ctx, "a1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.State != StateAwaitingMedicalHistoryInput || v.Prefill == nil {
		t.Fatalf("expected editor, got %+v", v)
	}
	if v.Prefill.IsEdit || v.Prefill.Existing != nil {
		t.Fatalf("expected create editor")
	}
	assertCalls(t, h.rec)

	form := v.Prefill.Defaults()
	if form.PetID != "p1" || form.DoctorID != "d1" || form.NextServiceID != "s1" || !form.RecordDate.Equal(visitDate) {
		t.Fatalf("unexpected defaults: %+v", form)
	}
	form.Description = "Annual checkup"
	form.Treatment = "Rabies booster"
	follow := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	form.NextAppointmentDate = &follow

	v, err = h.ctrl.Submit(ctx, "a1", form)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Committed || v.State != StateIdle {
		t.Fatalf("expected committed idle view, got %+v", v)
	}
	assertCalls(t, h.rec, "create", "set_status:completed")

	items := h.store.snapshot()
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}
	if items[0].AppointmentID != "a1" {
		t.Fatalf("expected appointment id stamped, got %q", items[0].AppointmentID)
	}
	want := time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)
	if items[0].NextAppointmentDate == nil || !items[0].NextAppointmentDate.Equal(want) {
		t.Fatalf("expected follow-up %s, got %v", want, items[0].NextAppointmentDate)
	}
	if got := h.ctrl.Session("a1"); got.State != StateIdle {
		t.Fatalf("expected idle session, got %s", got.State)
	}
}

func TestController_ReopenEditsSameDayRecord(t *testing.T) {
	h := newHarness(
		medicalhistory.Record{ID: "h-old", PetID: "p1", RecordDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Description: "old"},
		medicalhistory.Record{ID: "h1", PetID: "p1", RecordDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Description: "visit", Treatment: "rest"},
	)
	ctx := context.Background()

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusPending)
	v, err := h.ctrl.Confirm(ctx, "a1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.State != StateAwaitingMedicalHistoryInput || !v.Prefill.IsEdit {
		t.Fatalf("expected edit editor, got %+v", v)
	}
	if v.Prefill.Existing == nil || v.Prefill.Existing.ID != "h1" {
		t.Fatalf("expected h1 prefilled, got %+v", v.Prefill.Existing)
	}

	form := v.Prefill.Defaults()
	if form.Description != "visit" || form.Treatment != "rest" {
		t.Fatalf("expected defaults from record, got %+v", form)
	}
	form.Notes = "reopened by owner request"

	v, err = h.ctrl.Submit(ctx, "a1", form)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Committed {
		t.Fatalf("expected committed")
	}
	assertCalls(t, h.rec, "list", "update:h1", "set_status:pending")
}

func TestController_ReopenFallbackKeepsRecordLink(t *testing.T) {
	h := newHarness(medicalhistory.Record{
		ID:            "h-old",
		PetID:         "p1",
		AppointmentID: "appt-old",
		RecordDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Description:   "old visit",
		Treatment:     "rest",
	})
	ctx := context.Background()

	h.ctrl.Request(testAppointment("appt-new", appointments.StatusCompleted), appointments.StatusPending)
	v, err := h.ctrl.Confirm(ctx, "appt-new")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Prefill == nil || v.Prefill.Existing == nil || v.Prefill.Existing.ID != "h-old" {
		t.Fatalf("expected fallback record h-old, got %+v", v.Prefill)
	}

	form := v.Prefill.Defaults()
	if form.AppointmentID != "appt-old" {
		t.Fatalf("expected defaults linked to appt-old, got %q", form.AppointmentID)
	}

	// aunque el formulario traiga otra cita, el registro conserva la suya
	form.AppointmentID = "appt-new"
	if _, err := h.ctrl.Submit(ctx, "appt-new", form); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	assertCalls(t, h.rec, "list", "update:h-old", "set_status:pending")

	items := h.store.snapshot()
	if len(items) != 1 || items[0].AppointmentID != "appt-old" {
		t.Fatalf("record h-old must stay linked to appt-old, got %+v", items)
	}
}

func TestController_CancelCompletedDeletesHistory(t *testing.T) {
	h := newHarness(medicalhistory.Record{ID: "h1", PetID: "p1", RecordDate: visitDate})

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusCancelled)
	v, err := h.ctrl.Confirm(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Committed || v.Workflow != WorkflowDeleteMedicalHistory {
		t.Fatalf("unexpected view: %+v", v)
	}
	assertCalls(t, h.rec, "list", "delete:h1", "set_status:cancelled")
	if len(h.store.snapshot()) != 0 {
		t.Fatalf("expected record deleted")
	}
}

func TestController_DirectUpdate(t *testing.T) {
	h := newHarness()

	h.ctrl.Request(testAppointment("a1", appointments.StatusConfirmed), appointments.StatusPending)
	v, err := h.ctrl.Confirm(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Committed {
		t.Fatalf("expected committed")
	}
	assertCalls(t, h.rec, "set_status:pending")
}

func TestController_SameStatusIsNoop(t *testing.T) {
	h := newHarness()

	v := h.ctrl.Request(testAppointment("a1", appointments.StatusPending), appointments.StatusPending)
	if v.State != StateIdle || v.Ignored {
		t.Fatalf("expected plain idle view, got %+v", v)
	}
	if got := h.ctrl.Session("a1"); got.State != StateIdle {
		t.Fatalf("expected no session")
	}
}

func TestController_RequestReplacesPendingAndCancel(t *testing.T) {
	h := newHarness()
	appt := testAppointment("a1", appointments.StatusConfirmed)

	h.ctrl.Request(appt, appointments.StatusCompleted)
	v := h.ctrl.Request(appt, appointments.StatusCancelled)
	if v.Workflow != WorkflowDirectUpdate || v.Requested != appointments.StatusCancelled {
		t.Fatalf("expected replaced request, got %+v", v)
	}

	if v := h.ctrl.Cancel("a1"); v.State != StateIdle {
		t.Fatalf("expected idle after cancel")
	}
	v, err := h.ctrl.Confirm(context.Background(), "a1")
	if err != nil || !v.Ignored {
		t.Fatalf("confirm after cancel must be ignored, got %+v err=%v", v, err)
	}
	assertCalls(t, h.rec)
}

// -------------------------
// Failures
// -------------------------

func TestController_ValidationKeepsEditorOpen(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.ctrl.Request(testAppointment("a1", appointments.StatusPending), appointments.StatusCompleted)
	v, _ := h.ctrl.Confirm(ctx, "a1")

	form := v.Prefill.Defaults()
	form.Treatment = "Antibiotics"

	v, err := h.ctrl.Submit(ctx, "a1", form)
	if !errors.Is(err, medicalhistory.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if v.State != StateAwaitingMedicalHistoryInput || v.Prefill == nil {
		t.Fatalf("expected editor still open, got %+v", v)
	}
	if !strings.Contains(v.Prefill.Problem, "description") {
		t.Fatalf("expected inline problem, got %q", v.Prefill.Problem)
	}
	assertCalls(t, h.rec)

	form.Description = "Ear infection"
	v, err = h.ctrl.Submit(ctx, "a1", form)
	if err != nil || !v.Committed {
		t.Fatalf("expected commit on retry, got %+v err=%v", v, err)
	}
	assertCalls(t, h.rec, "create", "set_status:completed")
}

func TestController_CreateFailureSkipsStatus(t *testing.T) {
	h := newHarness()
	h.store.createErr = errors.New("disk full")
	ctx := context.Background()

	h.ctrl.Request(testAppointment("a1", appointments.StatusConfirmed), appointments.StatusCompleted)
	v, _ := h.ctrl.Confirm(ctx, "a1")
	form := v.Prefill.Defaults()
	form.Description = "x"
	form.Treatment = "y"

	v, err := h.ctrl.Submit(ctx, "a1", form)
	if !errors.Is(err, medicalhistory.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if v.State != StateAwaitingMedicalHistoryInput {
		t.Fatalf("expected editor still open, got %s", v.State)
	}
	if h.appts.setCalls() != 0 {
		t.Fatalf("status must not be written after a failed create")
	}
	assertCalls(t, h.rec, "create")
}

func TestController_StatusFailureResetsToIdle(t *testing.T) {
	h := newHarness()
	h.appts.err = errors.New("backend down")
	appt := testAppointment("a1", appointments.StatusConfirmed)

	h.ctrl.Request(appt, appointments.StatusPending)
	v, err := h.ctrl.Confirm(context.Background(), "a1")
	if !errors.Is(err, ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed, got %v", err)
	}
	if !strings.Contains(Notice(err), "backend down") {
		t.Fatalf("expected backend message surfaced, got %q", Notice(err))
	}
	if v.State != StateIdle || v.Committed {
		t.Fatalf("expected idle uncommitted view, got %+v", v)
	}

	// sin cooldown: se puede reintentar enseguida
	if v := h.ctrl.Request(appt, appointments.StatusPending); v.Ignored {
		t.Fatalf("retry after failure must not be ignored")
	}
}

func TestController_EditLookupFailureAborts(t *testing.T) {
	h := newHarness()
	h.store.listErr = errors.New("timeout")

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusConfirmed)
	v, err := h.ctrl.Confirm(context.Background(), "a1")
	if !errors.Is(err, medicalhistory.ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
	if v.State != StateIdle {
		t.Fatalf("expected idle, got %s", v.State)
	}
	assertCalls(t, h.rec, "list")
}

func TestController_DeleteLookupFailureStillCommits(t *testing.T) {
	h := newHarness()
	h.store.listErr = errors.New("timeout")

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusCancelled)
	v, err := h.ctrl.Confirm(context.Background(), "a1")
	if err != nil || !v.Committed {
		t.Fatalf("expected commit, got %+v err=%v", v, err)
	}
	assertCalls(t, h.rec, "list", "set_status:cancelled")
}

func TestController_DeleteFailureSkipsStatus(t *testing.T) {
	h := newHarness(medicalhistory.Record{ID: "h1", PetID: "p1", RecordDate: visitDate})
	h.store.deleteErr = errors.New("locked")

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusCancelled)
	_, err := h.ctrl.Confirm(context.Background(), "a1")
	if !errors.Is(err, medicalhistory.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	assertCalls(t, h.rec, "list", "delete:h1")
}

func TestController_UpdateOfVanishedRecordAborts(t *testing.T) {
	h := newHarness(medicalhistory.Record{ID: "h1", PetID: "p1", RecordDate: visitDate, Description: "a", Treatment: "b"})
	ctx := context.Background()

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusPending)
	v, _ := h.ctrl.Confirm(ctx, "a1")
	form := v.Prefill.Defaults()

	// otro usuario lo borra mientras el editor está abierto
	h.store.mu.Lock()
	h.store.items = nil
	h.store.mu.Unlock()

	v, err := h.ctrl.Submit(ctx, "a1", form)
	if !errors.Is(err, medicalhistory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if v.State != StateIdle {
		t.Fatalf("expected idle, got %s", v.State)
	}
	if h.appts.setCalls() != 0 {
		t.Fatalf("status must not be written")
	}
}

func TestController_EditWithoutRecordCommitsStatusOnly(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.ctrl.Request(testAppointment("a1", appointments.StatusCompleted), appointments.StatusPending)
	v, _ := h.ctrl.Confirm(ctx, "a1")
	if v.Prefill == nil || v.Prefill.Existing != nil || !v.Prefill.IsEdit {
		t.Fatalf("expected empty edit editor, got %+v", v.Prefill)
	}
	if got := v.Prefill.Defaults(); got != (medicalhistory.FormResult{AppointmentID: "a1"}) {
		t.Fatalf("expected blank form, got %+v", got)
	}

	v, err := h.ctrl.Submit(ctx, "a1", v.Prefill.Defaults())
	if err != nil || !v.Committed {
		t.Fatalf("expected commit, got %+v err=%v", v, err)
	}
	assertCalls(t, h.rec, "list", "set_status:pending")
}

// -------------------------
// Concurrency guard
// -------------------------

func TestController_DoubleConfirmCommitsOnce(t *testing.T) {
	h := newHarness()
	entered := make(chan struct{})
	release := make(chan struct{})
	h.appts.gate = func(string) {
		entered <- struct{}{}
		<-release
	}

	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	h.ctrl.guard.now = clock.now

	appt := testAppointment("a1", appointments.StatusConfirmed)
	h.ctrl.Request(appt, appointments.StatusPending)

	type out struct {
		v   View
		err error
	}
	done := make(chan out, 1)
	go func() {
		v, err := h.ctrl.Confirm(context.Background(), "a1")
		done <- out{v, err}
	}()
	<-entered

	if v, _ := h.ctrl.Confirm(context.Background(), "a1"); !v.Ignored {
		t.Fatalf("second confirm must be ignored")
	}
	if v := h.ctrl.Request(appt, appointments.StatusCancelled); !v.Ignored {
		t.Fatalf("request while committing must be ignored")
	}
	if v := h.ctrl.Cancel("a1"); !v.Ignored || v.State != StateCommitting {
		t.Fatalf("cancel while committing must be ignored, got %+v", v)
	}

	close(release)
	res := <-done
	if res.err != nil || !res.v.Committed {
		t.Fatalf("expected commit, got %+v err=%v", res.v, res.err)
	}
	if h.appts.setCalls() != 1 {
		t.Fatalf("expected exactly one status write, got %d", h.appts.setCalls())
	}

	// evento repetido con la vista vieja dentro del cooldown
	if v := h.ctrl.Request(appt, appointments.StatusPending); !v.Ignored {
		t.Fatalf("duplicate inside cooldown must be ignored")
	}

	clock.advance(time.Second)
	if v := h.ctrl.Request(appt, appointments.StatusPending); v.Ignored {
		t.Fatalf("cooldown must expire")
	}
}

func TestController_AppointmentsAreIndependent(t *testing.T) {
	h := newHarness()
	entered := make(chan struct{})
	release := make(chan struct{})
	h.appts.gate = func(id string) {
		if id != "a1" {
			return
		}
		entered <- struct{}{}
		<-release
	}

	h.ctrl.Request(testAppointment("a1", appointments.StatusConfirmed), appointments.StatusPending)
	done := make(chan error, 1)
	go func() {
		_, err := h.ctrl.Confirm(context.Background(), "a1")
		done <- err
	}()
	<-entered

	h.ctrl.Request(testAppointment("a2", appointments.StatusConfirmed), appointments.StatusPending)
	v, err := h.ctrl.Confirm(context.Background(), "a2")
	if err != nil || !v.Committed {
		t.Fatalf("a2 must commit while a1 is in flight, got %+v err=%v", v, err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if h.appts.setCalls() != 2 {
		t.Fatalf("expected 2 writes, got %d", h.appts.setCalls())
	}
}
