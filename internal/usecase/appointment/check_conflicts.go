package appointment

import (
	"context"
	"time"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

type CheckConflictsInput struct {
	SalonID              uint
	ProfessionalID       uint
	ClientID             uint
	StartTime            time.Time
	Duration             time.Duration
	ExcludeAppointmentID uint
	ActorRole            string
}

// CheckConflicts is the read-only probe: no side effects, safe to call
// repeatedly. The create/reschedule paths re-run the same query inside their
// own transaction; this use case exists for the "is this slot free?" API.
type CheckConflicts struct {
	repo domain.Repository
}

func NewCheckConflicts(repo domain.Repository) *CheckConflicts {
	return &CheckConflicts{repo: repo}
}

func (uc *CheckConflicts) Execute(
	ctx context.Context,
	in CheckConflictsInput,
) (*domain.ConflictResult, error) {

	result := &domain.ConflictResult{
		Conflicts:   []domain.Conflict{},
		CanOverride: models.CanOverrideConflicts(in.ActorRole),
	}

	// Zero-duration intervals are degenerate and never conflict.
	if in.Duration <= 0 {
		return result, nil
	}

	conflicts, err := uc.repo.FindConflicts(ctx, domain.ConflictQuery{
		SalonID:              in.SalonID,
		ProfessionalID:       in.ProfessionalID,
		ClientID:             in.ClientID,
		Start:                in.StartTime,
		End:                  in.StartTime.Add(in.Duration),
		ExcludeAppointmentID: in.ExcludeAppointmentID,
	})
	if err != nil {
		return nil, err
	}

	result.HasConflict = len(conflicts) > 0
	result.Conflicts = toConflicts(conflicts, in.ClientID)

	return result, nil
}
