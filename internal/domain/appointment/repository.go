package appointment

import (
	"context"
	"time"

	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

// ConflictQuery describes one conflict lookup. ExcludeAppointmentID is used
// when rescheduling an appointment against itself. ClientID may be zero to
// skip the cross-professional client check.
type ConflictQuery struct {
	SalonID              uint
	ProfessionalID       uint
	ClientID             uint
	Start                time.Time
	End                  time.Time
	ExcludeAppointmentID uint
}

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	GetSalonBySlug(
		ctx context.Context,
		slug string,
	) (*models.Salon, error)

	// -------- Catalog --------
	GetService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetClient(
		ctx context.Context,
		salonID uint,
		clientID uint,
	) (*models.Client, error)

	GetOrCreateClient(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Professional --------
	GetProfessional(
		ctx context.Context,
		salonID uint,
		professionalID uint,
	) (*models.User, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointments(
		ctx context.Context,
		aps []*models.Appointment,
	) error

	// FindConflicts returns every active appointment overlapping the query
	// window, for the professional and (when ClientID is set) for the client
	// across professionals. Inside a transaction the matched rows are locked
	// FOR UPDATE so a concurrent booking cannot pass the same check.
	FindConflicts(
		ctx context.Context,
		q ConflictQuery,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointmentStatus persists ap only if the row's status still
	// equals expected (optimistic concurrency on the status column).
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		expected Status,
	) error

	// -------- Listing / availability --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		salonID uint,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListActiveAppointmentsForDay(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListRecurrenceGroup(
		ctx context.Context,
		salonID uint,
		groupID string,
	) ([]models.Appointment, error)

	// GetWorkingHours returns ErrWorkingHoursNotFound when no schedule row
	// exists for that weekday.
	GetWorkingHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// -------- Unit of work --------
	// InTransaction runs fn against a transaction-scoped repository under
	// repeatable-read isolation. The conflict check and the write it guards
	// must share one transaction; two calls that merely run close together
	// are not a mutual-exclusion mechanism.
	InTransaction(
		ctx context.Context,
		fn func(repo Repository) error,
	) error
}
