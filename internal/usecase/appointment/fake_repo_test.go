package appointment

import (
	"context"
	"time"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

// fakeRepo is an in-memory Repository for exercising the use cases. Its
// InTransaction snapshots the appointment table and restores it when fn
// fails, which is exactly the all-or-nothing behavior the real transaction
// provides.
type fakeRepo struct {
	salon         *models.Salon
	professionals map[uint]*models.User
	services      map[uint]*models.Service
	clients       map[uint]*models.Client
	workingHours  map[int]*models.WorkingHours

	appointments []*models.Appointment
	nextID       uint

	createErr error
}

func newFakeRepo() *fakeRepo {
	// Every weekday bookable 08:00-20:00; tests that need a break or a day
	// off overwrite the weekday they use.
	hours := make(map[int]*models.WorkingHours, 7)
	for wd := 0; wd < 7; wd++ {
		hours[wd] = &models.WorkingHours{
			ProfessionalID: 2,
			Weekday:        wd,
			StartTime:      "08:00",
			EndTime:        "20:00",
			Active:         true,
		}
	}

	return &fakeRepo{
		salon: &models.Salon{
			ID:                1,
			Name:              "Studio Nova",
			Slug:              "studio-nova",
			Timezone:          "UTC",
			MinAdvanceMinutes: 120,
		},
		professionals: map[uint]*models.User{
			2: {ID: 2, SalonID: 1, Name: "Ana", Role: models.RoleProfessional},
			9: {ID: 9, SalonID: 1, Name: "Bia", Role: models.RoleProfessional},
		},
		services: map[uint]*models.Service{
			10: {ID: 10, SalonID: 1, Name: "Haircut", DurationMin: 30, Price: 50, Active: true},
			11: {ID: 11, SalonID: 1, Name: "Coloring", DurationMin: 60, Price: 120, Active: true},
		},
		clients: map[uint]*models.Client{
			3: {ID: 3, SalonID: 1, Name: "Carla", Phone: "555-0001"},
		},
		workingHours: hours,
		nextID:       100,
	}
}

func (f *fakeRepo) seedAppointment(ap models.Appointment) *models.Appointment {
	f.nextID++
	ap.ID = f.nextID
	if ap.SalonID == 0 {
		ap.SalonID = 1
	}
	cp := ap
	f.appointments = append(f.appointments, &cp)
	return &cp
}

func (f *fakeRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	if f.salon == nil || f.salon.ID != id {
		return nil, domain.ErrSalonNotFound
	}
	return f.salon, nil
}

func (f *fakeRepo) GetSalonBySlug(_ context.Context, slug string) (*models.Salon, error) {
	if f.salon == nil || f.salon.Slug != slug {
		return nil, domain.ErrSalonNotFound
	}
	return f.salon, nil
}

func (f *fakeRepo) GetService(_ context.Context, salonID, serviceID uint) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok || svc.SalonID != salonID {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}

func (f *fakeRepo) GetClient(_ context.Context, salonID, clientID uint) (*models.Client, error) {
	cl, ok := f.clients[clientID]
	if !ok || cl.SalonID != salonID {
		return nil, domain.ErrClientNotFound
	}
	return cl, nil
}

func (f *fakeRepo) GetOrCreateClient(_ context.Context, salonID uint, name, phone, email string) (*models.Client, error) {
	for _, cl := range f.clients {
		if cl.SalonID == salonID && cl.Phone == phone {
			return cl, nil
		}
	}
	f.nextID++
	cl := &models.Client{ID: f.nextID, SalonID: salonID, Name: name, Phone: phone, Email: email}
	f.clients[cl.ID] = cl
	return cl, nil
}

func (f *fakeRepo) GetProfessional(_ context.Context, salonID, professionalID uint) (*models.User, error) {
	p, ok := f.professionals[professionalID]
	if !ok || p.SalonID != salonID {
		return nil, domain.ErrProfessionalNotFound
	}
	return p, nil
}

func (f *fakeRepo) CreateAppointments(_ context.Context, aps []*models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, ap := range aps {
		f.nextID++
		ap.ID = f.nextID
		cp := *ap
		f.appointments = append(f.appointments, &cp)
	}
	return nil
}

func (f *fakeRepo) FindConflicts(_ context.Context, q domain.ConflictQuery) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.SalonID != q.SalonID {
			continue
		}
		if q.ExcludeAppointmentID != 0 && ap.ID == q.ExcludeAppointmentID {
			continue
		}
		if !domain.Status(ap.Status).IsActive() {
			continue
		}
		sameProfessional := ap.ProfessionalID == q.ProfessionalID
		sameClient := q.ClientID != 0 && ap.ClientID == q.ClientID
		if !sameProfessional && !sameClient {
			continue
		}
		if domain.Overlaps(q.Start, q.End, ap.StartTime, ap.EndTime) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, salonID, appointmentID uint) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == appointmentID && ap.SalonID == salonID {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i, existing := range f.appointments {
		if existing.ID == ap.ID {
			cp := *ap
			f.appointments[i] = &cp
			return nil
		}
	}
	return domain.ErrAppointmentNotFound
}

func (f *fakeRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment, expected domain.Status) error {
	for i, existing := range f.appointments {
		if existing.ID != ap.ID {
			continue
		}
		if domain.Status(existing.Status) != expected {
			return &domain.InvalidTransitionError{
				From:    domain.Status(existing.Status),
				To:      domain.Status(ap.Status),
				Allowed: domain.AllowedTransitions(domain.Status(existing.Status)),
			}
		}
		cp := *ap
		f.appointments[i] = &cp
		return nil
	}
	return domain.ErrAppointmentNotFound
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, salonID, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.SalonID != salonID {
			continue
		}
		if professionalID != 0 && ap.ProfessionalID != professionalID {
			continue
		}
		if ap.StartTime.Before(end) && ap.StartTime.Compare(start) >= 0 {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListActiveAppointmentsForDay(_ context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ProfessionalID != professionalID {
			continue
		}
		if !domain.Status(ap.Status).IsActive() {
			continue
		}
		if domain.Overlaps(start, end, ap.StartTime, ap.EndTime) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRecurrenceGroup(_ context.Context, salonID uint, groupID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.SalonID == salonID && ap.RecurrenceGroupID != nil && *ap.RecurrenceGroupID == groupID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetWorkingHours(_ context.Context, professionalID uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := f.workingHours[weekday]
	if !ok {
		return nil, domain.ErrWorkingHoursNotFound
	}
	return wh, nil
}

func (f *fakeRepo) InTransaction(_ context.Context, fn func(repo domain.Repository) error) error {
	snapshot := make([]*models.Appointment, len(f.appointments))
	for i, ap := range f.appointments {
		cp := *ap
		snapshot[i] = &cp
	}

	if err := fn(f); err != nil {
		f.appointments = snapshot
		return err
	}
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ----- side-effect fakes -----

type fakeEvents struct {
	published []domain.Event
}

func (f *fakeEvents) Publish(ev domain.Event) {
	f.published = append(f.published, ev)
}

type fakeReminders struct {
	scheduled   []uint
	rescheduled []uint
	cancelled   []uint
}

func (f *fakeReminders) Schedule(appointmentID uint, _ time.Time) {
	f.scheduled = append(f.scheduled, appointmentID)
}

func (f *fakeReminders) Reschedule(appointmentID uint, _ time.Time) {
	f.rescheduled = append(f.rescheduled, appointmentID)
}

func (f *fakeReminders) Cancel(appointmentID uint) {
	f.cancelled = append(f.cancelled, appointmentID)
}

var (
	_ domain.EventSink         = (*fakeEvents)(nil)
	_ domain.ReminderScheduler = (*fakeReminders)(nil)
)
