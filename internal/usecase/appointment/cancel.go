package appointment

import (
	"context"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

type CancelAppointmentInput struct {
	SalonID       uint
	ActorID       uint
	AppointmentID uint
	Reason        string
	ByClient      bool
}

type CancelAppointment struct {
	repo      domain.Repository
	events    domain.EventSink
	reminders domain.ReminderScheduler
}

func NewCancelAppointment(
	repo domain.Repository,
	events domain.EventSink,
	reminders domain.ReminderScheduler,
) *CancelAppointment {
	return &CancelAppointment{
		repo:      repo,
		events:    events,
		reminders: reminders,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	prev := domain.Status(ap.Status)

	now := timezone.NowIn(salon.Timezone)
	if err := domain.Cancel(ap, in.ActorID, in.Reason, in.ByClient, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.reminders.Cancel(ap.ID)

	uc.events.Publish(domain.Event{
		Type:        domain.EventCancelled,
		SalonID:     in.SalonID,
		ActorID:     in.ActorID,
		Appointment: *ap,
		Metadata: map[string]any{
			"reason":       in.Reason,
			"by_client":    in.ByClient,
			"hours_before": ap.CancelHoursBefore,
		},
		OccurredAt: now,
	})

	return ap, nil
}
