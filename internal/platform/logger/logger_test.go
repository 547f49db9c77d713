package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_TextFormat_SortedAndFiltered(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatText, App: "vet-clinic-console", Output: &buf})
	l.(*stdLogger).now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }

	l.Debug("hidden", nil)
	l.With(map[string]any{"appointment_id": "7"}).Info("status committed", map[string]any{"to": "completed"})

	got := strings.TrimSpace(buf.String())
	want := "app=vet-clinic-console appointment_id=7 level=info msg=status committed to=completed ts=2024-06-10T09:00:00Z"
	if got != want {
		t.Fatalf("unexpected line\n got: %s\nwant: %s", got, want)
	}
}

func TestLogger_JSONFormat_ErrorsAsStrings(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, Output: &buf})

	l.Error("commit failed", map[string]any{"err": errors.New("boom")})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json line: %v (%s)", err, buf.String())
	}
	if entry["err"] != "boom" || entry["level"] != "error" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	cases := map[string]Level{"": Info, "DEBUG": Debug, "warning": Warn, "error": Error, "nope": Info}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}
