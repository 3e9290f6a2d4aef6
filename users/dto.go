// Package users wraps the user endpoints of the lab reservation API: the
// current operator's profile and the administration screens that approve,
// reject or ban student and temporary accounts.
// This file, `dto.go`, defines the structures exchanged with the API.
package users

// Role is an account's role.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleAdmin     Role = "admin"
	RoleTemporary Role = "temporary"
)

// Status is an account's approval state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusBanned   Status = "banned"
)

// Scope prefixes the administration endpoints: admins manage every account
// under /admin/users, teachers their own students under /teacher/users.
type Scope string

const (
	ScopeNone    Scope = ""
	ScopeAdmin   Scope = "admin"
	ScopeTeacher Scope = "teacher"
)

// User is a user record as the API serializes it. The server uses Go-style
// capitalized keys for this type.
// Optional fields are pointers; nil means the server did not send them.
type User struct {
	ID        int     `json:"ID"`
	Name      string  `json:"Name"`
	Account   string  `json:"Account"`
	Phone     string  `json:"Phone"`
	Role      Role    `json:"Role"`
	Status    Status  `json:"Status"`
	Purpose   *string `json:"Purpose,omitempty"`
	Grade     *string `json:"Grade,omitempty"`
	CreatedAt *string `json:"CreatedAt,omitempty"`
	UpdatedAt *string `json:"UpdatedAt,omitempty"`
	DeletedAt *string `json:"DeletedAt,omitempty"`
}

// Buckets groups managed accounts by approval state.
type Buckets struct {
	Pending  []User `json:"pending"`
	Approved []User `json:"approved"`
	Rejected []User `json:"rejected"`
	Banned   []User `json:"banned"`
}

// ManagedUsers is the administration listing, split by role.
type ManagedUsers struct {
	Student   Buckets `json:"student"`
	Temporary Buckets `json:"temporary"`
}

// UpdateStatusRequest moves accounts to a new approval state.
type UpdateStatusRequest struct {
	UserIDs []int   `json:"user_ids" validate:"required,min=1"`
	Status  Status  `json:"status" validate:"required,oneof=pending approved rejected banned"`
	Reason  *string `json:"reason,omitempty"`
}

// UpdateStatusResponse reports how many accounts changed.
type UpdateStatusResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}
