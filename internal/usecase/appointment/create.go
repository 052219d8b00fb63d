package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	"github.com/VioletaSoft/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ServiceLine struct {
	ServiceID uint
	Quantity  int
}

type CreateAppointmentInput struct {
	SalonID        uint
	ProfessionalID uint

	ActorID   uint
	ActorRole string

	// Either an existing client id or the get-or-create triple.
	ClientID    uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	Items []ServiceLine

	StartTime time.Time
	Notes     string

	// nil or Type none books a single visit.
	Recurrence *domain.RecurrenceRule

	SkipConflictCheck bool
	Override          bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	events    domain.EventSink
	reminders domain.ReminderScheduler
}

func NewCreateAppointment(
	repo domain.Repository,
	events domain.EventSink,
	reminders domain.ReminderScheduler,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		events:    events,
		reminders: reminders,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books a single appointment or a whole recurring series. Every
// occurrence is conflict-checked and inserted inside one transaction: if any
// occurrence conflicts and the caller cannot override, nothing is persisted.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) ([]*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	professional, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	items, totalDuration, totalPrice, err := uc.resolveItems(ctx, in.SalonID, in.Items)
	if err != nil {
		return nil, err
	}

	minAdvance := salon.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(salon.Timezone)
	if in.StartTime.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, domain.ErrTooSoon
	}

	client, err := uc.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	rule := domain.RecurrenceRule{Type: domain.RecurrenceNone}
	if in.Recurrence != nil {
		rule = *in.Recurrence
	}

	groupID, occurrences, err := domain.GenerateOccurrences(in.StartTime, rule)
	if err != nil {
		return nil, err
	}

	recurring := rule.Type != "" && rule.Type != domain.RecurrenceNone
	canOverride := models.CanOverrideConflicts(in.ActorRole)

	var created []*models.Appointment

	err = uc.repo.InTransaction(ctx, func(txRepo domain.Repository) error {
		created = created[:0]

		for _, occ := range occurrences {
			start := occ.Date
			end := start.Add(time.Duration(totalDuration) * time.Minute)

			// Every occurrence must land inside the professional's working
			// day; one visit on a day off sinks the whole series.
			wh, err := txRepo.GetWorkingHours(ctx, professional.ID, int(start.Weekday()))
			if err != nil && !errors.Is(err, domain.ErrWorkingHoursNotFound) {
				return err
			}
			if err != nil || !domain.WithinWorkingHours(wh, start, end) {
				return domain.ErrOutsideWorkingHours
			}

			if !in.SkipConflictCheck {
				conflicts, err := txRepo.FindConflicts(ctx, domain.ConflictQuery{
					SalonID:        in.SalonID,
					ProfessionalID: professional.ID,
					ClientID:       client.ID,
					Start:          start,
					End:            end,
				})
				if err != nil {
					return err
				}

				if len(conflicts) > 0 && !(in.Override && canOverride) {
					return &domain.ConflictError{
						Conflicts: toConflicts(conflicts, client.ID),
					}
				}
			}

			ap := &models.Appointment{
				SalonID:          in.SalonID,
				ProfessionalID:   professional.ID,
				ClientID:         client.ID,
				Items:            cloneItems(items),
				StartTime:        start,
				EndTime:          end,
				TotalDurationMin: totalDuration,
				TotalPrice:       totalPrice,
				Status:           string(domain.InitialStatus()),
				Notes:            in.Notes,
				RecurrenceIndex:  occ.Index,
				CreatedBy:        in.ActorID,
			}
			if recurring {
				gid := groupID
				ap.RecurrenceGroupID = &gid
			}

			created = append(created, ap)
		}

		return txRepo.CreateAppointments(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	// Side effects only after the batch has committed: a reminder must never
	// exist for an appointment that failed to persist.
	for _, ap := range created {
		uc.events.Publish(domain.Event{
			Type:        domain.EventCreated,
			SalonID:     in.SalonID,
			ActorID:     in.ActorID,
			Appointment: *ap,
			Metadata: map[string]any{
				"recurrence_index": ap.RecurrenceIndex,
				"recurring":        recurring,
			},
			OccurredAt: now,
		})
		uc.reminders.Schedule(ap.ID, ap.StartTime)
	}

	return created, nil
}

// ======================================================
// HELPERS
// ======================================================

func (uc *CreateAppointment) resolveItems(
	ctx context.Context,
	salonID uint,
	lines []ServiceLine,
) ([]models.AppointmentItem, int, float64, error) {

	if len(lines) == 0 {
		return nil, 0, 0, domain.ErrEmptyServiceList
	}

	var (
		items         []models.AppointmentItem
		totalDuration int
		totalPrice    float64
	)

	for i, line := range lines {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, 0, 0, domain.ErrInvalidQuantity
		}

		svc, err := uc.repo.GetService(ctx, salonID, line.ServiceID)
		if err != nil {
			return nil, 0, 0, err
		}

		items = append(items, models.AppointmentItem{
			ServiceID:       svc.ID,
			Quantity:        qty,
			UnitPrice:       svc.Price,
			UnitDurationMin: svc.DurationMin,
			Position:        i,
		})

		totalDuration += svc.DurationMin * qty
		totalPrice += svc.Price * float64(qty)
	}

	return items, totalDuration, totalPrice, nil
}

func (uc *CreateAppointment) resolveClient(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Client, error) {

	if in.ClientID != 0 {
		return uc.repo.GetClient(ctx, in.SalonID, in.ClientID)
	}

	return uc.repo.GetOrCreateClient(
		ctx,
		in.SalonID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
}

func cloneItems(items []models.AppointmentItem) []models.AppointmentItem {
	out := make([]models.AppointmentItem, len(items))
	copy(out, items)
	return out
}

func toConflicts(aps []models.Appointment, clientID uint) []domain.Conflict {
	out := make([]domain.Conflict, 0, len(aps))
	for _, ap := range aps {
		out = append(out, domain.Conflict{
			AppointmentID:  ap.ID,
			ProfessionalID: ap.ProfessionalID,
			ClientID:       ap.ClientID,
			StartTime:      ap.StartTime,
			EndTime:        ap.EndTime,
			Status:         domain.Status(ap.Status),
			SameClient:     clientID != 0 && ap.ClientID == clientID,
		})
	}
	return out
}
