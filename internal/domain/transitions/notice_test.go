package transitions

import (
	"errors"
	"fmt"
	"testing"

	"vet-clinic-console/internal/domain/medicalhistory"
)

func TestNotice(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: treatment required", medicalhistory.ErrValidation), "Please complete the medical history: treatment required."},
		{medicalhistory.ErrValidation, "Please complete the medical history: description and treatment required."},
		{fmt.Errorf("%w: %w", medicalhistory.ErrLookup, errors.New("timeout")), "Could not load the medical history. Please retry."},
		{medicalhistory.ErrNotFound, "The medical history record no longer exists. Please reload and retry."},
		{fmt.Errorf("%w: %w", ErrCommitFailed, errors.New("409 conflict")), "Could not update the appointment status (appointment status update failed: 409 conflict). Please retry."},
		{errors.New("x"), "Something went wrong. Please retry."},
	}

	for _, tt := range tests {
		if got := Notice(tt.err); got != tt.want {
			t.Fatalf("Notice(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}
