package dto

import "time"

type AppointmentListDTO struct {
	ID              uint      `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	ClientName      string    `json:"client_name"`
	Services        []string  `json:"services"`
	TotalPrice      float64   `json:"total_price"`
	RecurrenceGroup *string   `json:"recurrence_group_id,omitempty"`
}
