package appointment

import (
	"time"

	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

// ===============================
// Domain Events
// ===============================

type EventType string

const (
	EventCreated       EventType = "appointment_created"
	EventConfirmed     EventType = "appointment_confirmed"
	EventCheckedIn     EventType = "appointment_checked_in"
	EventStarted       EventType = "appointment_started"
	EventCompleted     EventType = "appointment_completed"
	EventCancelled     EventType = "appointment_cancelled"
	EventNoShow        EventType = "appointment_no_show"
	EventRescheduled   EventType = "appointment_rescheduled"
	EventStatusChanged EventType = "appointment_status_changed"
)

// Event carries a snapshot of the appointment as of the transition, the actor
// who performed it, and transition-specific metadata. Events are published
// only after the transaction that performed the mutation has committed.
type Event struct {
	Type        EventType
	SalonID     uint
	ActorID     uint
	Appointment models.Appointment
	Metadata    map[string]any
	OccurredAt  time.Time
}

// EventSink receives one event per transition. Publication must never block
// or fail the business operation.
type EventSink interface {
	Publish(ev Event)
}

// ReminderScheduler is fire-and-forget from the lifecycle's perspective:
// calls happen after commit and failures are logged, not propagated.
type ReminderScheduler interface {
	Schedule(appointmentID uint, startTime time.Time)
	Reschedule(appointmentID uint, startTime time.Time)
	Cancel(appointmentID uint)
}
