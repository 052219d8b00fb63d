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

// futureStart pins bookings to 10:00 on the day at least `hours` ahead, so
// they always land inside the fixture's 08:00-20:00 schedule regardless of
// the wall clock.
func futureStart(hours int) time.Time {
	t := time.Now().UTC().Add(time.Duration(hours) * time.Hour)
	return time.Date(t.Year(), t.Month(), t.Day(), 10, 0, 0, 0, time.UTC)
}

func newCreateFixture() (*CreateAppointment, *fakeRepo, *fakeEvents, *fakeReminders) {
	repo := newFakeRepo()
	events := &fakeEvents{}
	reminders := &fakeReminders{}
	return NewCreateAppointment(repo, events, reminders), repo, events, reminders
}

func TestCreateSingleAppointment(t *testing.T) {
	uc, repo, events, reminders := newCreateFixture()
	start := futureStart(48)

	created, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ActorID:        5,
		ActorRole:      models.RoleProfessional,
		ClientID:       3,
		Items: []ServiceLine{
			{ServiceID: 10, Quantity: 1},
			{ServiceID: 11, Quantity: 2},
		},
		StartTime: start,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	ap := created[0]
	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, 30+2*60, ap.TotalDurationMin)
	assert.InDelta(t, 50+2*120, ap.TotalPrice, 0.001)
	assert.Equal(t, start, ap.StartTime)
	assert.Equal(t, start.Add(150*time.Minute), ap.EndTime)
	assert.Nil(t, ap.RecurrenceGroupID)
	require.Len(t, ap.Items, 2)
	// Line items snapshot the catalog price at booking time.
	assert.InDelta(t, 120.0, ap.Items[1].UnitPrice, 0.001)
	assert.Equal(t, 2, ap.Items[1].Quantity)

	require.Len(t, repo.appointments, 1)
	require.Len(t, events.published, 1)
	assert.Equal(t, domain.EventCreated, events.published[0].Type)
	assert.Equal(t, []uint{ap.ID}, reminders.scheduled)
}

func TestCreateRejectsEmptyServiceList(t *testing.T) {
	uc, _, _, _ := newCreateFixture()

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		StartTime:      futureStart(48),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyServiceList)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	uc, _, _, _ := newCreateFixture()

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10, Quantity: -1}},
		StartTime:      futureStart(48),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateRejectsTooSoon(t *testing.T) {
	uc, _, _, _ := newCreateFixture()

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      time.Now().UTC().Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, domain.ErrTooSoon)
}

func TestCreateGetOrCreateClientByPhone(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()

	created, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientName:     "Duda",
		ClientPhone:    "555-0099",
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      futureStart(48),
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	cl, ok := repo.clients[created[0].ClientID]
	require.True(t, ok)
	assert.Equal(t, "Duda", cl.Name)
	assert.Equal(t, "555-0099", cl.Phone)
}

func TestCreateDetectsProfessionalConflict(t *testing.T) {
	uc, repo, events, reminders := newCreateFixture()
	start := futureStart(48)

	repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       7,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
	})

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ActorID:        5,
		ActorRole:      models.RoleProfessional,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start.Add(15 * time.Minute),
	})
	require.Error(t, err)
	require.True(t, domain.IsConflict(err))

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Conflicts, 1)
	assert.False(t, ce.Conflicts[0].SameClient)

	assert.Len(t, repo.appointments, 1)
	assert.Empty(t, events.published)
	assert.Empty(t, reminders.scheduled)
}

func TestCreateTouchingSlotsDoNotConflict(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()
	start := futureStart(48)

	repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       7,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
	})

	created, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestCreateIgnoresCancelledConflicts(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()
	start := futureStart(48)

	repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       7,
		Status:         string(domain.StatusCancelled),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
	})

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
	})
	assert.NoError(t, err)
}

func TestCreateDetectsClientDoubleBooking(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()
	start := futureStart(48)

	// Same client, different professional, same window.
	repo.seedAppointment(models.Appointment{
		ProfessionalID: 9,
		ClientID:       3,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
	})

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
	})
	require.Error(t, err)

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Conflicts, 1)
	assert.True(t, ce.Conflicts[0].SameClient)
}

func TestCreateOverrideRequiresPrivilegedRole(t *testing.T) {
	start := futureStart(48)

	seed := func(repo *fakeRepo) {
		repo.seedAppointment(models.Appointment{
			ProfessionalID: 2,
			ClientID:       7,
			Status:         string(domain.StatusConfirmed),
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
		})
	}

	in := CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ActorID:        5,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
		Override:       true,
	}

	uc, repo, _, _ := newCreateFixture()
	seed(repo)
	in.ActorRole = models.RoleProfessional
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, domain.IsConflict(err), "professional cannot override")

	uc, repo, _, _ = newCreateFixture()
	seed(repo)
	in.ActorRole = models.RoleManager
	created, err := uc.Execute(context.Background(), in)
	require.NoError(t, err, "manager can override")
	assert.Len(t, created, 1)
}

func TestCreateRecurringSeries(t *testing.T) {
	uc, repo, events, reminders := newCreateFixture()
	start := futureStart(48)

	created, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ActorID:        5,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
		Recurrence: &domain.RecurrenceRule{
			Type:  domain.RecurrenceWeekly,
			Count: 4,
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 4)

	groupID := created[0].RecurrenceGroupID
	require.NotNil(t, groupID)
	for i, ap := range created {
		require.NotNil(t, ap.RecurrenceGroupID)
		assert.Equal(t, *groupID, *ap.RecurrenceGroupID)
		assert.Equal(t, i, ap.RecurrenceIndex)
		assert.Equal(t, start.AddDate(0, 0, 7*i), ap.StartTime)
	}

	assert.Len(t, repo.appointments, 4)
	assert.Len(t, events.published, 4)
	assert.Len(t, reminders.scheduled, 4)
}

func TestCreateRecurringAllOrNothingOnConflict(t *testing.T) {
	uc, repo, events, reminders := newCreateFixture()
	start := futureStart(48)

	// Busy slot colliding with the third occurrence only.
	repo.seedAppointment(models.Appointment{
		ProfessionalID: 2,
		ClientID:       7,
		Status:         string(domain.StatusConfirmed),
		StartTime:      start.AddDate(0, 0, 14),
		EndTime:        start.AddDate(0, 0, 14).Add(time.Hour),
	})

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
		Recurrence: &domain.RecurrenceRule{
			Type:  domain.RecurrenceWeekly,
			Count: 4,
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))

	// Nothing from the series survives, not even the conflict-free occurrences.
	assert.Len(t, repo.appointments, 1)
	assert.Empty(t, events.published)
	assert.Empty(t, reminders.scheduled)
}

func TestCreateRecurringEndDateBeforeStartFails(t *testing.T) {
	uc, repo, events, reminders := newCreateFixture()
	start := futureStart(48)

	// Bounded, but the bound lies before the first occurrence: zero visits.
	end := start.AddDate(0, 0, -7)
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
		Recurrence: &domain.RecurrenceRule{
			Type:    domain.RecurrenceWeekly,
			EndDate: &end,
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)

	assert.Empty(t, repo.appointments)
	assert.Empty(t, events.published)
	assert.Empty(t, reminders.scheduled)
}

func TestCreateOutsideWorkingHoursFails(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()

	base := futureStart(48)
	start := time.Date(base.Year(), base.Month(), base.Day(), 6, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
	})
	assert.ErrorIs(t, err, domain.ErrOutsideWorkingHours)
	assert.Empty(t, repo.appointments)
}

func TestCreateDuringBreakFails(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()

	base := futureStart(48)
	wd := int(base.Weekday())
	repo.workingHours[wd] = &models.WorkingHours{
		ProfessionalID: 2,
		Weekday:        wd,
		StartTime:      "08:00",
		EndTime:        "20:00",
		BreakStart:     "12:00",
		BreakEnd:       "13:00",
		Active:         true,
	}

	start := time.Date(base.Year(), base.Month(), base.Day(), 12, 15, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
	})
	assert.ErrorIs(t, err, domain.ErrOutsideWorkingHours)
}

func TestCreateDayWithoutScheduleFails(t *testing.T) {
	uc, repo, _, _ := newCreateFixture()
	start := futureStart(48)

	delete(repo.workingHours, int(start.Weekday()))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
	})
	assert.ErrorIs(t, err, domain.ErrOutsideWorkingHours)
}

func TestCreateRecurringDayOffSinksSeries(t *testing.T) {
	uc, repo, events, reminders := newCreateFixture()
	start := futureStart(48)

	// The third daily occurrence lands on a day with no schedule.
	delete(repo.workingHours, int(start.AddDate(0, 0, 2).Weekday()))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      start,
		Recurrence: &domain.RecurrenceRule{
			Type:  domain.RecurrenceDaily,
			Count: 3,
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutsideWorkingHours)

	assert.Empty(t, repo.appointments)
	assert.Empty(t, events.published)
	assert.Empty(t, reminders.scheduled)
}

func TestCreateRecurringRejectsUnboundedRule(t *testing.T) {
	uc, _, _, _ := newCreateFixture()

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      futureStart(48),
		Recurrence:     &domain.RecurrenceRule{Type: domain.RecurrenceDaily},
	})
	assert.ErrorIs(t, err, domain.ErrUnboundedRecurrence)
}

func TestCreateUnknownSalonAndProfessional(t *testing.T) {
	uc, _, _, _ := newCreateFixture()

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        99,
		ProfessionalID: 2,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      futureStart(48),
	})
	assert.ErrorIs(t, err, domain.ErrSalonNotFound)

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 42,
		ClientID:       3,
		Items:          []ServiceLine{{ServiceID: 10}},
		StartTime:      futureStart(48),
	})
	assert.ErrorIs(t, err, domain.ErrProfessionalNotFound)
}
