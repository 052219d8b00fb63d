package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

func TestCheckConflictsFindsOverlap(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckConflicts(repo)

	start := futureStart(48)
	repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       7,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
	})

	res, err := uc.Execute(context.Background(), CheckConflictsInput{
		SalonID:        1,
		ProfessionalID: 2,
		StartTime:      start.Add(30 * time.Minute),
		Duration:       time.Hour,
		ActorRole:      models.RoleProfessional,
	})
	require.NoError(t, err)
	assert.True(t, res.HasConflict)
	require.Len(t, res.Conflicts, 1)
	assert.False(t, res.CanOverride)
}

func TestCheckConflictsCleanSlot(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckConflicts(repo)

	res, err := uc.Execute(context.Background(), CheckConflictsInput{
		SalonID:        1,
		ProfessionalID: 2,
		StartTime:      futureStart(48),
		Duration:       time.Hour,
		ActorRole:      models.RoleOwner,
	})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
	assert.Empty(t, res.Conflicts)
	assert.True(t, res.CanOverride)
}

func TestCheckConflictsZeroDuration(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckConflicts(repo)

	start := futureStart(48)
	repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       7,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
	})

	res, err := uc.Execute(context.Background(), CheckConflictsInput{
		SalonID:        1,
		ProfessionalID: 2,
		StartTime:      start,
		Duration:       0,
	})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheckConflictsExcludesAppointment(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckConflicts(repo)

	start := futureStart(48)
	seeded := repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       3,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
	})

	res, err := uc.Execute(context.Background(), CheckConflictsInput{
		SalonID:              1,
		ProfessionalID:       2,
		StartTime:            start,
		Duration:             time.Hour,
		ExcludeAppointmentID: seeded.ID,
	})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}
