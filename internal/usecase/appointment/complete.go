package appointment

import (
	"context"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

type CompleteAppointment struct {
	repo   domain.Repository
	events domain.EventSink
}

func NewCompleteAppointment(
	repo domain.Repository,
	events domain.EventSink,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		events: events,
	}
}

func (uc *CompleteAppointment) Execute(
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
	if err := domain.Complete(ap, actorID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.events.Publish(domain.Event{
		Type:        domain.EventCompleted,
		SalonID:     salonID,
		ActorID:     actorID,
		Appointment: *ap,
		OccurredAt:  now,
	})

	return ap, nil
}
