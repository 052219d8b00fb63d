package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"salon"`

	ProfessionalID uint `gorm:"index:idx_appointments_professional_window" json:"professional_id"`
	Professional   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Items []AppointmentItem `gorm:"foreignKey:AppointmentID" json:"items"`

	StartTime time.Time `gorm:"index:idx_appointments_professional_window" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Frozen at creation/reschedule; never recomputed from the catalog.
	TotalDurationMin int     `json:"total_duration_min"`
	TotalPrice       float64 `json:"total_price"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes string `gorm:"size:255" json:"notes"`

	// All occurrences expanded from one recurring request share a group id;
	// the index is the occurrence's position in the series.
	RecurrenceGroupID *string `gorm:"size:36;index" json:"recurrence_group_id"`
	RecurrenceIndex   int     `json:"recurrence_index"`

	// Each field below is stamped only by its lifecycle transition.
	CreatedBy uint `json:"created_by"`

	ConfirmedBy *uint      `json:"confirmed_by"`
	ConfirmedAt *time.Time `json:"confirmed_at"`

	CheckedInAt *time.Time `json:"checked_in_at"`
	StartedAt   *time.Time `json:"started_at"`

	CompletedBy *uint      `json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`

	CancelledBy       *uint      `json:"cancelled_by"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	CancelReason      string     `gorm:"size:255" json:"cancel_reason"`
	CancelledByClient bool       `json:"cancelled_by_client"`
	CancelHoursBefore float64    `json:"cancel_hours_before"`

	RescheduledBy    *uint      `json:"rescheduled_by"`
	RescheduledAt    *time.Time `json:"rescheduled_at"`
	RescheduleReason string     `gorm:"size:255" json:"reschedule_reason"`

	NoShowAt *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentItem is one service line of an appointment. UnitPrice and
// UnitDurationMin are snapshots of the catalog values at booking time.
type AppointmentItem struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	UnitDurationMin int     `json:"unit_duration_min"`
	Position        int     `json:"position"`
}
