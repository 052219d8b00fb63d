package appointment

import (
	"context"
	"time"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

type RescheduleAppointmentInput struct {
	SalonID       uint
	ActorID       uint
	ActorRole     string
	AppointmentID uint

	NewStart          time.Time
	NewProfessionalID uint // zero keeps the current professional
	Reason            string
	Override          bool
}

type RescheduleAppointment struct {
	repo      domain.Repository
	events    domain.EventSink
	reminders domain.ReminderScheduler
}

func NewRescheduleAppointment(
	repo domain.Repository,
	events domain.EventSink,
	reminders domain.ReminderScheduler,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:      repo,
		events:    events,
		reminders: reminders,
	}
}

// Execute moves an appointment to a new time and optionally a new
// professional. The conflict check excludes the appointment itself and runs
// in the same transaction as the update. Status does not change.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	if in.NewProfessionalID != 0 {
		if _, err := uc.repo.GetProfessional(ctx, in.SalonID, in.NewProfessionalID); err != nil {
			return nil, err
		}
	}

	now := timezone.NowIn(salon.Timezone)
	canOverride := models.CanOverrideConflicts(in.ActorRole)

	var ap *models.Appointment

	err = uc.repo.InTransaction(ctx, func(txRepo domain.Repository) error {
		ap, err = txRepo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
		if err != nil {
			return err
		}

		professionalID := ap.ProfessionalID
		if in.NewProfessionalID != 0 {
			professionalID = in.NewProfessionalID
		}

		newEnd := in.NewStart.Add(time.Duration(ap.TotalDurationMin) * time.Minute)

		conflicts, err := txRepo.FindConflicts(ctx, domain.ConflictQuery{
			SalonID:              in.SalonID,
			ProfessionalID:       professionalID,
			ClientID:             ap.ClientID,
			Start:                in.NewStart,
			End:                  newEnd,
			ExcludeAppointmentID: ap.ID,
		})
		if err != nil {
			return err
		}

		if len(conflicts) > 0 && !(in.Override && canOverride) {
			return &domain.ConflictError{
				Conflicts: toConflicts(conflicts, ap.ClientID),
			}
		}

		if err := domain.Reschedule(ap, in.NewStart, in.NewProfessionalID, in.ActorID, in.Reason, now); err != nil {
			return err
		}

		return txRepo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.reminders.Reschedule(ap.ID, ap.StartTime)

	uc.events.Publish(domain.Event{
		Type:        domain.EventRescheduled,
		SalonID:     in.SalonID,
		ActorID:     in.ActorID,
		Appointment: *ap,
		Metadata: map[string]any{
			"reason":          in.Reason,
			"new_start":       ap.StartTime,
			"professional_id": ap.ProfessionalID,
		},
		OccurredAt: now,
	})

	return ap, nil
}
