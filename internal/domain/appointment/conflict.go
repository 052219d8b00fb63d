package appointment

import "time"

// Conflict is a summary of one existing appointment overlapping the
// requested interval.
type Conflict struct {
	AppointmentID  uint      `json:"appointment_id"`
	ProfessionalID uint      `json:"professional_id"`
	ClientID       uint      `json:"client_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         Status    `json:"status"`
	SameClient     bool      `json:"same_client"`
}

type ConflictResult struct {
	HasConflict bool       `json:"has_conflict"`
	Conflicts   []Conflict `json:"conflicts"`
	CanOverride bool       `json:"can_override"`
}

// Overlaps applies half-open interval intersection over [aStart, aEnd) and
// [bStart, bEnd): touching intervals do not overlap, and a degenerate
// zero-length interval never overlaps anything.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.Before(aEnd) || !bStart.Before(bEnd) {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
