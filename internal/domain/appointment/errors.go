package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrSalonNotFound        = errors.New("salon_not_found")
	ErrAppointmentNotFound  = errors.New("appointment_not_found")
	ErrClientNotFound       = errors.New("client_not_found")
	ErrProfessionalNotFound = errors.New("professional_not_found")
	ErrServiceNotFound      = errors.New("service_not_found")

	ErrWorkingHoursNotFound = errors.New("working_hours_not_found")

	ErrEmptyServiceList    = errors.New("empty_service_list")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrTooSoon             = errors.New("too_soon")
	ErrOutsideWorkingHours = errors.New("outside_working_hours")
)

// InvalidTransitionError reports a status change not present in the
// transition table, together with the transitions that would have been legal.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s (allowed: %v)", e.From, e.To, e.Allowed)
}

// ConflictError carries every overlapping appointment found by the checker,
// so the caller can surface them or retry with an override.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict with %d appointment(s)", len(e.Conflicts))
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}
