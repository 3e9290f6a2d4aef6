// Package semesters wraps the semester endpoints. Exactly one semester is
// active at a time; reservations are only accepted inside it.
package semesters

// Semester is an academic term. The server sends its id as `ID`.
type Semester struct {
	ID        int    `json:"ID"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// Query filters and pages the semester list.
type Query struct {
	Page     *int  `url:"page,omitempty"`
	Size     *int  `url:"size,omitempty"`
	IsActive *bool `url:"is_active,omitempty"`
}

// CreateRequest adds a semester.
type CreateRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// UpdateRequest edits a semester. Nil fields are left unchanged.
type UpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
