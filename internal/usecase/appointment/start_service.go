package appointment

import (
	"context"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

type StartAppointment struct {
	repo   domain.Repository
	events domain.EventSink
}

func NewStartAppointment(
	repo domain.Repository,
	events domain.EventSink,
) *StartAppointment {
	return &StartAppointment{
		repo:   repo,
		events: events,
	}
}

func (uc *StartAppointment) Execute(
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
	if err := domain.StartService(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.events.Publish(domain.Event{
		Type:        domain.EventStarted,
		SalonID:     salonID,
		ActorID:     actorID,
		Appointment: *ap,
		OccurredAt:  now,
	})

	return ap, nil
}
