package models

import "time"

// Roles: owner, manager, professional. Owners and managers may force
// bookings into conflicting slots; professionals may not.
const (
	RoleOwner        = "owner"
	RoleManager      = "manager"
	RoleProfessional = "professional"
)

type User struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"salon"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'professional'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func CanOverrideConflicts(role string) bool {
	return role == RoleOwner || role == RoleManager
}
