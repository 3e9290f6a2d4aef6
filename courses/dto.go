// Package courses wraps the course endpoints. A course blocks a lab for a
// time slot so it cannot be reserved.
package courses

import "github.com/user/labconsole/reservations"

// Course is a lab blocked for teaching.
type Course struct {
	ID        int                   `json:"id"`
	CreatedAt string                `json:"created_at"`
	UpdatedAt string                `json:"updated_at"`
	DeletedAt *string               `json:"deleted_at"`
	LabID     int                   `json:"lab_id"`
	Date      string                `json:"date"`
	TimeSlot  reservations.TimeSlot `json:"time_slot"`
	Reason    string                `json:"reason"`
	CreatedBy int                   `json:"created_by"`
}

// Query filters the course list.
type Query struct {
	LabID     *int                   `url:"lab_id,omitempty"`
	StartDate *string                `url:"start_date,omitempty"`
	EndDate   *string                `url:"end_date,omitempty"`
	TimeSlot  *reservations.TimeSlot `url:"time_slot,omitempty"`
	Page      *int                   `url:"page,omitempty"`
	Size      *int                   `url:"size,omitempty"`
}

// CreateRequest blocks a lab.
type CreateRequest struct {
	LabID    int                   `json:"lab_id" validate:"required"`
	Date     string                `json:"date" validate:"required"`
	TimeSlot reservations.TimeSlot `json:"time_slot" validate:"required,oneof=morning noon afternoon evening"`
	Reason   string                `json:"reason" validate:"required"`
}
