// Package equipments wraps the equipment endpoints: the instruments kept in
// each lab and their service state.
package equipments

// Status is an instrument's service state.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusMaintenance  Status = "maintenance"
	StatusOutOfService Status = "out_of_service"
)

// Equipment is one instrument.
type Equipment struct {
	ID        int    `json:"id"`
	LabID     int    `json:"lab_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Model     string `json:"model"`
	Status    Status `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Query filters the equipment list.
type Query struct {
	LabID    *int    `url:"lab_id,omitempty"`
	Q        *string `url:"q,omitempty"`
	Category *string `url:"category,omitempty"`
	Status   *Status `url:"status,omitempty"`
	Page     *int    `url:"page,omitempty"`
	Size     *int    `url:"size,omitempty"`
}

// CreateRequest registers an instrument.
type CreateRequest struct {
	LabID    int    `json:"lab_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Model    string `json:"model" validate:"required"`
	Status   Status `json:"status" validate:"required,oneof=available maintenance out_of_service"`
}

// UpdateRequest edits an instrument. Nil fields are left unchanged.
type UpdateRequest struct {
	LabID    *int    `json:"lab_id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Model    *string `json:"model,omitempty"`
	Status   *Status `json:"status,omitempty" validate:"omitempty,oneof=available maintenance out_of_service"`
}
