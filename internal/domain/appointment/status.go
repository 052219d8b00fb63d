package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// transitions is the full lifecycle as data. A status missing a target here
// cannot be reached from it, no exceptions; every operation validates against
// this table before mutating anything.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusWaiting, StatusCancelled, StatusNoShow},
	StatusWaiting:    {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

func InitialStatus() Status {
	return StatusPending
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

// IsActive reports whether the appointment still occupies its time slot.
// Only active appointments participate in conflict detection.
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaiting, StatusInProgress:
		return true
	}
	return false
}

func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusWaiting, StatusInProgress}
}

// AllowedTransitions returns a copy of the targets reachable from s.
func AllowedTransitions(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ValidateTransition is the single gate every status change goes through,
// including the generic update path.
func ValidateTransition(from, to Status) error {
	if !from.IsValid() || !to.IsValid() {
		return &InvalidTransitionError{From: from, To: to, Allowed: AllowedTransitions(from)}
	}
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to, Allowed: AllowedTransitions(from)}
	}
	return nil
}
