package medicalhistory

import (
	"strings"
	"time"
)

const (
	defaultFollowUpHour   = 9
	defaultFollowUpMinute = 0
)

// FollowUpTimestamp combina la fecha de seguimiento con la hora "HH:MM".
// Sin fecha devuelve nil. Sin hora (o con una hora ilegible) usa las 09:00.
// Segundos y nanosegundos quedan en cero; se respeta la zona de date.
func FollowUpTimestamp(date *time.Time, timeOfDay string) *time.Time {
	if date == nil || date.IsZero() {
		return nil
	}

	hour, minute := defaultFollowUpHour, defaultFollowUpMinute
	if tod := strings.TrimSpace(timeOfDay); tod != "" {
		if t, err := time.Parse("15:04", tod); err == nil {
			hour, minute = t.Hour(), t.Minute()
		}
	}

	y, m, d := date.Date()
	ts := time.Date(y, m, d, hour, minute, 0, 0, date.Location())
	return &ts
}
