package appointment

import (
	"time"

	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

// WithinWorkingHours reports whether [start, end) fits inside the
// professional's working day and clear of the break window. A missing or
// inactive schedule means the professional takes no bookings that day.
func WithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	loc := start.Location()

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			start.Year(), start.Month(), start.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	workStart := parseHM(wh.StartTime)
	workEnd := parseHM(wh.EndTime)

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if wh.BreakStart != "" && wh.BreakEnd != "" {
		if Overlaps(start, end, parseHM(wh.BreakStart), parseHM(wh.BreakEnd)) {
			return false
		}
	}

	return true
}
