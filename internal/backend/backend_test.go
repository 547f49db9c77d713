package backend

import (
	"context"
	"testing"
	"time"

	"vet-clinic-console/internal/config"
	"vet-clinic-console/internal/domain/appointments"
)

func TestOpen_MemoryWithDemoData(t *testing.T) {
	b, err := Open(context.Background(), config.Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer b.Close()

	if b.Kind != config.StoreMemory {
		t.Fatalf("expected memory, got %s", b.Kind)
	}
	a, err := b.Appointments.GetByID(context.Background(), "demo-2")
	if err != nil {
		t.Fatalf("expected demo appointment: %v", err)
	}
	if a.Status != appointments.StatusConfirmed {
		t.Fatalf("unexpected status %s", a.Status)
	}
}

func TestOpen_ClinicAPI(t *testing.T) {
	b, err := Open(context.Background(), config.Config{ClinicAPIURL: "http://clinic.local", ClinicAPITimeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Kind != config.StoreClinicAPI {
		t.Fatalf("expected clinicapi, got %s", b.Kind)
	}
	if b.Close() != nil {
		t.Fatalf("close must be a no-op without db")
	}
}
