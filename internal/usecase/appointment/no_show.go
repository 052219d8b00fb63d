package appointment

import (
	"context"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

type MarkNoShow struct {
	repo      domain.Repository
	events    domain.EventSink
	reminders domain.ReminderScheduler
}

func NewMarkNoShow(
	repo domain.Repository,
	events domain.EventSink,
	reminders domain.ReminderScheduler,
) *MarkNoShow {
	return &MarkNoShow{
		repo:      repo,
		events:    events,
		reminders: reminders,
	}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	salonID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, salonID, appointmentID)
	if err != nil {
		return nil, err
	}

	prev := domain.Status(ap.Status)

	now := timezone.NowIn(salon.Timezone)
	if err := domain.MarkNoShow(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.reminders.Cancel(ap.ID)

	uc.events.Publish(domain.Event{
		Type:        domain.EventNoShow,
		SalonID:     salonID,
		ActorID:     actorID,
		Appointment: *ap,
		OccurredAt:  now,
	})

	return ap, nil
}
