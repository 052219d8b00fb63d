package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSalonNotFound
		}
		return nil, err
	}
	return &salon, nil
}

func (r *AppointmentGormRepository) GetSalonBySlug(
	ctx context.Context,
	slug string,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&salon).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSalonNotFound
		}
		return nil, err
	}
	return &salon, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	salonID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", serviceID, salonID).
		First(&svc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	salonID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", clientID, salonID).
		First(&client).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		SalonID: salonID,
		Name:    name,
		Phone:   phone,
		Email:   email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", professionalID, salonID).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrProfessionalNotFound
		}
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointments(
	ctx context.Context,
	aps []*models.Appointment,
) error {
	if len(aps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(aps).Error
}

func (r *AppointmentGormRepository) FindConflicts(
	ctx context.Context,
	q domain.ConflictQuery,
) ([]models.Appointment, error) {

	// Degenerate interval: nothing can overlap a zero-length window.
	if !q.Start.Before(q.End) {
		return nil, nil
	}

	active := domain.ActiveStatuses()

	tx := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ?", q.SalonID).
		Where("status IN ?", active).
		Where("start_time < ? AND end_time > ?", q.End, q.Start)

	if q.ClientID != 0 {
		tx = tx.Where("(professional_id = ? OR client_id = ?)", q.ProfessionalID, q.ClientID)
	} else {
		tx = tx.Where("professional_id = ?", q.ProfessionalID)
	}

	if q.ExcludeAppointmentID != 0 {
		tx = tx.Where("id <> ?", q.ExcludeAppointmentID)
	}

	var conflicts []models.Appointment
	if err := tx.Order("start_time ASC").Find(&conflicts).Error; err != nil {
		return nil, err
	}

	return conflicts, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Items").Save(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	expected domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, expected).
		Select("*").
		Omit("Items", "id", "created_at").
		Updates(ap)

	if res.Error != nil {
		return res.Error
	}

	// Zero rows means the status moved under us; report it as an invalid
	// transition from whatever is there now.
	if res.RowsAffected == 0 {
		var current models.Appointment
		if err := r.db.WithContext(ctx).
			Select("status").
			First(&current, ap.ID).Error; err != nil {
			return domain.ErrAppointmentNotFound
		}
		return &domain.InvalidTransitionError{
			From:    domain.Status(current.Status),
			To:      domain.Status(ap.Status),
			Allowed: domain.AllowedTransitions(domain.Status(current.Status)),
		}
	}

	return nil
}

// --------------------------------------------------
// Listing / availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items").
		Preload("Items.Service").
		Where(
			"salon_id = ? AND professional_id = ? AND start_time >= ? AND start_time < ?",
			salonID, professionalID, start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) ListActiveAppointmentsForDay(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"professional_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			professionalID, domain.ActiveStatuses(), start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) ListRecurrenceGroup(
	ctx context.Context,
	salonID uint,
	groupID string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND recurrence_group_id = ?", salonID, groupID).
		Order("recurrence_index ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrWorkingHoursNotFound
		}
		return nil, err
	}

	return &wh, nil
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

// InTransaction opens a repeatable-read transaction; the phantom protection
// is what keeps two concurrent bookings from both passing the conflict check
// before either commits.
func (r *AppointmentGormRepository) InTransaction(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
