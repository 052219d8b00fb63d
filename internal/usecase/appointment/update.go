package appointment

import (
	"context"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

type UpdateAppointmentInput struct {
	SalonID       uint
	ActorID       uint
	AppointmentID uint

	Notes  *string
	Status *string
}

// UpdateAppointment is the generic patch endpoint. A requested status change
// goes through the same transition table as the dedicated operations; this
// path is not a bypass.
type UpdateAppointment struct {
	repo      domain.Repository
	events    domain.EventSink
	reminders domain.ReminderScheduler
}

func NewUpdateAppointment(
	repo domain.Repository,
	events domain.EventSink,
	reminders domain.ReminderScheduler,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:      repo,
		events:    events,
		reminders: reminders,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
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

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	statusChanged := false
	if in.Status != nil && domain.Status(*in.Status) != prev {
		if err := domain.ApplyStatus(ap, domain.Status(*in.Status), in.ActorID, now); err != nil {
			return nil, err
		}
		statusChanged = true
	}

	if statusChanged {
		if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
			return nil, err
		}
	} else {
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, err
		}
	}

	// Events mark transitions; a notes-only patch is not one.
	if statusChanged {
		if !domain.Status(ap.Status).IsActive() {
			uc.reminders.Cancel(ap.ID)
		}

		uc.events.Publish(domain.Event{
			Type:        domain.EventStatusChanged,
			SalonID:     in.SalonID,
			ActorID:     in.ActorID,
			Appointment: *ap,
			Metadata: map[string]any{
				"from": string(prev),
				"to":   ap.Status,
			},
			OccurredAt: now,
		})
	}

	return ap, nil
}
