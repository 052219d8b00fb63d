package appointment

import (
	"time"

	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================
//
// Each action validates the status change against the transition table,
// then mutates the model and stamps only that transition's audit fields.
// Persistence and event publication are the use case's job.

func Confirm(ap *models.Appointment, actorID uint, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedBy = &actorID
	ap.ConfirmedAt = &now
	return nil
}

func CheckIn(ap *models.Appointment, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), StatusWaiting); err != nil {
		return err
	}

	ap.Status = string(StatusWaiting)
	ap.CheckedInAt = &now
	return nil
}

func StartService(ap *models.Appointment, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), StatusInProgress); err != nil {
		return err
	}

	ap.Status = string(StatusInProgress)
	ap.StartedAt = &now
	return nil
}

func Complete(ap *models.Appointment, actorID uint, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedBy = &actorID
	ap.CompletedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, actorID uint, reason string, byClient bool, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledBy = &actorID
	ap.CancelledAt = &now
	ap.CancelReason = reason
	ap.CancelledByClient = byClient
	ap.CancelHoursBefore = ap.StartTime.Sub(now).Hours()
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), StatusNoShow); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	ap.NoShowAt = &now
	return nil
}

// Reschedule moves the appointment without changing its status. The caller
// must have conflict-checked the new window first (excluding this
// appointment) inside the same transaction as the update.
func Reschedule(ap *models.Appointment, newStart time.Time, newProfessionalID uint, actorID uint, reason string, now time.Time) error {
	current := Status(ap.Status)
	if current.IsTerminal() {
		return &InvalidTransitionError{From: current, To: current, Allowed: AllowedTransitions(current)}
	}

	ap.StartTime = newStart
	ap.EndTime = newStart.Add(time.Duration(ap.TotalDurationMin) * time.Minute)
	if newProfessionalID != 0 {
		ap.ProfessionalID = newProfessionalID
	}
	ap.RescheduledBy = &actorID
	ap.RescheduledAt = &now
	ap.RescheduleReason = reason
	return nil
}

// ApplyStatus routes a generic status patch through the same actions the
// dedicated operations use. The update endpoint is not a bypass.
func ApplyStatus(ap *models.Appointment, to Status, actorID uint, now time.Time) error {
	if err := ValidateTransition(Status(ap.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusConfirmed:
		return Confirm(ap, actorID, now)
	case StatusWaiting:
		return CheckIn(ap, now)
	case StatusInProgress:
		return StartService(ap, now)
	case StatusCompleted:
		return Complete(ap, actorID, now)
	case StatusCancelled:
		return Cancel(ap, actorID, "", false, now)
	case StatusNoShow:
		return MarkNoShow(ap, now)
	}

	return &InvalidTransitionError{From: Status(ap.Status), To: to, Allowed: AllowedTransitions(Status(ap.Status))}
}
